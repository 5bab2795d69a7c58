package domain

import (
	"encoding/json"
	"strconv"
)

// ActionRequest describes one form-less action the client asks the server to perform.
type ActionRequest struct {
	ID     string            // Correlation id, sent as X-Request-ID
	URL    string            // Server action, e.g. "/post/42/upvote/"
	Params map[string]string // Form values; nil when the action needs none
}

// Message categories understood by the message region.
const (
	CategoryError   = "error"
	CategorySuccess = "success"
)

// ActionResponse is the envelope returned by the server for an ActionRequest.
//
// Only Success is required. RedirectURL and Reload are meaningful on success,
// Error on failure. The payload fields are filled by vote and delete actions.
type ActionResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Reload      bool   `json:"reload,omitempty"`
	Error       string `json:"error,omitempty"`

	PostID    int64  `json:"post_id,omitempty"`
	CommentID int64  `json:"comment_id,omitempty"`
	Score     *Score `json:"score,omitempty"`

	// Fields holds every key of the decoded JSON object, including the ones
	// mapped above, so callbacks can read action-specific extras.
	Fields map[string]any `json:"-"`

	// Skipped lists the keys whose values did not fit their field. Those
	// fields keep their zero value; the raw value stays in Fields.
	Skipped []string `json:"-"`
}

// Score is a numeric score kept in the server's own notation, so "17.5"
// renders as 17.5 and "17" as 17.
type Score = json.Number

// IntScore wraps an integer score.
func IntScore(n int64) *Score {
	s := Score(strconv.FormatInt(n, 10))
	return &s
}

// Failure builds an error envelope.
func Failure(message string) ActionResponse {
	return ActionResponse{Success: false, Error: message}
}

// Redirect builds a success envelope that sends the page elsewhere.
func Redirect(url string) ActionResponse {
	return ActionResponse{Success: true, RedirectURL: url}
}

// ReloadPage builds a success envelope that asks for a full reload.
func ReloadPage() ActionResponse {
	return ActionResponse{Success: true, Reload: true}
}

// PostScore builds the reply of a post vote.
func PostScore(postID, score int64) ActionResponse {
	return ActionResponse{Success: true, PostID: postID, Score: IntScore(score)}
}

// CommentScore builds the reply of a comment vote.
func CommentScore(commentID, score int64) ActionResponse {
	return ActionResponse{Success: true, CommentID: commentID, Score: IntScore(score)}
}

// CommentDeleted builds the reply of a comment deletion.
func CommentDeleted(commentID int64) ActionResponse {
	return ActionResponse{Success: true, CommentID: commentID}
}
