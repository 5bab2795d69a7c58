package ports

import (
	"context"

	"github.com/aretw0/newsmeme/pkg/domain"
)

// VoteStore persists posts, comments, votes and karma for the action server.
//
// Votes follow the original rules: authors cannot vote on their own items,
// a user votes once per item, and the author's karma moves with the vote but
// never drops below zero. Items are deleted by their author or a moderator.
type VoteStore interface {
	AddPost(ctx context.Context, post domain.Post) error
	AddComment(ctx context.Context, comment domain.Comment) error

	// VotePost applies delta (+1 or -1) and returns the new score.
	// Returns domain.ErrNotFound or domain.ErrForbidden.
	VotePost(ctx context.Context, postID int64, user string, delta int64) (int64, error)
	VoteComment(ctx context.Context, commentID int64, user string, delta int64) (int64, error)

	// DeletePost removes the post and all of its comments.
	// Returns domain.ErrForbidden unless by.CanDelete the post's author.
	DeletePost(ctx context.Context, postID int64, by domain.Actor) error
	DeleteComment(ctx context.Context, commentID int64, by domain.Actor) error

	// Karma returns the user's karma, zero for unknown users.
	Karma(ctx context.Context, user string) (int64, error)
}
