package dispatcher_test

import (
	"testing"

	"github.com/aretw0/newsmeme/pkg/dispatcher"
	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/aretw0/newsmeme/pkg/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostPage() *page.Page {
	return page.New("/").
		Add("vote-42", "vote").
		Add("score-42", "16").
		Add("comment-9", "first!").
		Add("vote-comment-9", "vote").
		Add("score-comment-9", "0")
}

func setup(t *testing.T, transport *StubTransport) (*dispatcher.Actions, *page.Page) {
	t.Helper()
	p := newPostPage()
	d := dispatcher.New(transport, p)
	t.Cleanup(d.Close)
	return dispatcher.NewActions(d, p), p
}

func TestVotePost_Success(t *testing.T) {
	transport := NewStubTransport().Reply("/vote/42", domain.PostScore(42, 17))
	actions, p := setup(t, transport)

	out := wait(t, actions.VotePost("/vote/42"))

	assert.Equal(t, domain.EffectCallback, out.Effect.Kind)
	require.Equal(t, 1, transport.RequestCount())
	assert.Equal(t, "/vote/42", transport.Requests[0].URL)
	assert.Nil(t, transport.Requests[0].Params)

	vote, _ := p.Element("vote-42")
	assert.True(t, vote.Hidden)
	score, _ := p.Element("score-42")
	assert.Equal(t, "17", score.Text)
}

func TestVoteComment_Success(t *testing.T) {
	transport := NewStubTransport().Reply("/comment/9/downvote/", domain.CommentScore(9, -1))
	actions, p := setup(t, transport)

	wait(t, actions.VoteComment("/comment/9/downvote/"))

	vote, _ := p.Element("vote-comment-9")
	assert.True(t, vote.Hidden)
	score, _ := p.Element("score-comment-9")
	assert.Equal(t, "-1", score.Text)

	// The post's own elements share the numeric id space but not the prefix.
	postVote, _ := p.Element("vote-42")
	assert.False(t, postVote.Hidden)
}

func TestDeleteComment_Success(t *testing.T) {
	transport := NewStubTransport().Reply("/comment/9/delete", domain.CommentDeleted(9))
	actions, p := setup(t, transport)

	wait(t, actions.DeleteComment("/comment/9/delete"))

	comment, _ := p.Element("comment-9")
	assert.True(t, comment.Hidden)
	assert.True(t, comment.Faded)
}

func TestDeleteComment_Failure(t *testing.T) {
	transport := NewStubTransport().Reply("/comment/9/delete", domain.Failure("Not authorized"))
	actions, p := setup(t, transport)

	wait(t, actions.DeleteComment("/comment/9/delete"))

	assert.Equal(t, []page.Message{{Text: "Not authorized", Category: "error"}}, p.Messages())
	comment, _ := p.Element("comment-9")
	assert.False(t, comment.Hidden)
}

func TestDeletePost_Redirects(t *testing.T) {
	transport := NewStubTransport().Reply("/post/42/delete/", domain.Redirect("/"))
	actions, p := setup(t, transport)
	p.Navigate("/post/42/")

	out := wait(t, actions.DeletePost("/post/42/delete/"))

	assert.Equal(t, domain.Navigate("/"), out.Effect)
	assert.Equal(t, "/", p.URL())
}

func TestVotePost_MissingScoreLeavesElement(t *testing.T) {
	transport := NewStubTransport().Reply("/vote/42", domain.ActionResponse{Success: true, PostID: 42})
	actions, p := setup(t, transport)

	wait(t, actions.VotePost("/vote/42"))

	vote, _ := p.Element("vote-42")
	assert.True(t, vote.Hidden)
	score, _ := p.Element("score-42")
	assert.Equal(t, "16", score.Text)
}

func TestVotePost_MalformedEnvelopeTouchesNothing(t *testing.T) {
	transport := NewStubTransport().Reply("/vote/42", domain.ActionResponse{Success: true, Score: domain.IntScore(0)})
	actions, p := setup(t, transport)

	wait(t, actions.VotePost("/vote/42"))

	for _, m := range p.Journal() {
		assert.False(t, m.Matched, "unexpected match on %s", m.Target)
	}
	score, _ := p.Element("score-42")
	assert.Equal(t, "16", score.Text)
}

func TestElementID(t *testing.T) {
	assert.Equal(t, "score-comment-9", dispatcher.ElementID(dispatcher.PrefixScoreComment, 9))
	assert.Equal(t, "vote-42", dispatcher.ElementID(dispatcher.PrefixVote, 42))
}

func TestVotePost_FractionalScoreShownAsSent(t *testing.T) {
	resp, err := domain.ParseResponse([]byte(`{"success":true,"post_id":42,"score":17.5}`))
	require.NoError(t, err)
	actions, p := setup(t, NewStubTransport().Reply("/vote/42", resp))

	wait(t, actions.VotePost("/vote/42"))

	score, _ := p.Element("score-42")
	assert.Equal(t, "17.5", score.Text)
}

func TestDeleteComment_FailureWithOddPayloadShowsMessage(t *testing.T) {
	resp, err := domain.ParseResponse([]byte(`{"success":false,"error":"Not authorized","score":"-"}`))
	require.NoError(t, err)
	actions, p := setup(t, NewStubTransport().Reply("/comment/9/delete", resp))

	out := wait(t, actions.DeleteComment("/comment/9/delete"))

	assert.Equal(t, domain.ShowError("Not authorized"), out.Effect)
	require.Len(t, p.Messages(), 1)
	assert.Equal(t, "Not authorized", p.Messages()[0].Text)
	comment, _ := p.Element("comment-9")
	assert.False(t, comment.Faded)
}
