package memory

import (
	"context"
	"sync"

	"github.com/aretw0/newsmeme/pkg/domain"
)

type item struct {
	author string
	score  int64
	postID int64
	voters map[string]struct{}
}

// Store implements ports.VoteStore in memory.
// Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	posts    map[int64]*item
	comments map[int64]*item
	karma    map[string]int64
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		posts:    make(map[int64]*item),
		comments: make(map[int64]*item),
		karma:    make(map[string]int64),
	}
}

// AddPost stores a post, replacing any post with the same id.
func (s *Store) AddPost(ctx context.Context, post domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = &item{author: post.Author, score: post.Score, voters: make(map[string]struct{})}
	return nil
}

// AddComment stores a comment. The post must exist.
func (s *Store) AddComment(ctx context.Context, comment domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[comment.PostID]; !ok {
		return domain.ErrNotFound
	}
	s.comments[comment.ID] = &item{
		author: comment.Author,
		score:  comment.Score,
		postID: comment.PostID,
		voters: make(map[string]struct{}),
	}
	return nil
}

func (s *Store) VotePost(ctx context.Context, postID int64, user string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vote(s.posts[postID], user, delta)
}

func (s *Store) VoteComment(ctx context.Context, commentID int64, user string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vote(s.comments[commentID], user, delta)
}

func (s *Store) vote(it *item, user string, delta int64) (int64, error) {
	if it == nil {
		return 0, domain.ErrNotFound
	}
	if it.author == user {
		return 0, domain.ErrForbidden
	}
	if _, voted := it.voters[user]; voted {
		return 0, domain.ErrForbidden
	}

	it.voters[user] = struct{}{}
	it.score += delta
	s.karma[it.author] = max(s.karma[it.author]+delta, 0)
	return it.score, nil
}

func (s *Store) DeletePost(ctx context.Context, postID int64, by domain.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return domain.ErrNotFound
	}
	if !by.CanDelete(post.author) {
		return domain.ErrForbidden
	}

	for id, c := range s.comments {
		if c.postID == postID {
			delete(s.comments, id)
		}
	}
	delete(s.posts, postID)
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, commentID int64, by domain.Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[commentID]
	if !ok {
		return domain.ErrNotFound
	}
	if !by.CanDelete(comment.author) {
		return domain.ErrForbidden
	}
	delete(s.comments, commentID)
	return nil
}

func (s *Store) Karma(ctx context.Context, user string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.karma[user], nil
}
