package dispatcher

import (
	"strconv"

	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/aretw0/newsmeme/pkg/ports"
)

// Element id prefixes shared with the page layer.
const (
	PrefixComment      = "comment-"
	PrefixVote         = "vote-"
	PrefixScore        = "score-"
	PrefixVoteComment  = "vote-comment-"
	PrefixScoreComment = "score-comment-"
)

// ElementID builds the lookup id of an entity's element, e.g. "score-42".
func ElementID(prefix string, entityID int64) string {
	return prefix + strconv.FormatInt(entityID, 10)
}

// Actions binds the newsmeme page actions to a Dispatcher and a View.
type Actions struct {
	dispatcher *Dispatcher
	view       ports.View
}

// NewActions creates the preconfigured actions.
func NewActions(d *Dispatcher, view ports.View) *Actions {
	return &Actions{dispatcher: d, view: view}
}

// DeleteComment removes the comment named by the reply's comment_id.
func (a *Actions) DeleteComment(url string) *Pending {
	return a.dispatcher.Submit(url, nil, func(resp domain.ActionResponse) {
		a.view.FadeOut(ElementID(PrefixComment, resp.CommentID))
	})
}

// VotePost hides the post's vote control and shows its new score.
func (a *Actions) VotePost(url string) *Pending {
	return a.dispatcher.Submit(url, nil, func(resp domain.ActionResponse) {
		a.view.Hide(ElementID(PrefixVote, resp.PostID))
		a.setScore(ElementID(PrefixScore, resp.PostID), resp.Score)
	})
}

// VoteComment hides the comment's vote control and shows its new score.
func (a *Actions) VoteComment(url string) *Pending {
	return a.dispatcher.Submit(url, nil, func(resp domain.ActionResponse) {
		a.view.Hide(ElementID(PrefixVoteComment, resp.CommentID))
		a.setScore(ElementID(PrefixScoreComment, resp.CommentID), resp.Score)
	})
}

// DeletePost deletes a post. The server answers with a redirect, so there is
// no success callback.
func (a *Actions) DeletePost(url string) *Pending {
	return a.dispatcher.Submit(url, nil, nil)
}

// A reply without a score leaves the element as it was.
func (a *Actions) setScore(id string, score *domain.Score) {
	if score == nil {
		return
	}
	a.view.SetText(id, score.String())
}
