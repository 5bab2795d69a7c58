package ports

import (
	"context"
	"testing"

	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunVoteStoreContract runs a suite of tests to verify that a VoteStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunVoteStoreContract(t *testing.T, store VoteStore) {
	ctx := context.Background()

	require.NoError(t, store.AddPost(ctx, domain.Post{ID: 1, Author: "alice", Score: 10}))
	require.NoError(t, store.AddPost(ctx, domain.Post{ID: 2, Author: "alice"}))
	require.NoError(t, store.AddComment(ctx, domain.Comment{ID: 10, PostID: 1, Author: "bob", Score: 1}))
	require.NoError(t, store.AddComment(ctx, domain.Comment{ID: 11, PostID: 1, Author: "carol"}))
	require.NoError(t, store.AddComment(ctx, domain.Comment{ID: 20, PostID: 2, Author: "bob"}))

	t.Run("Vote Post", func(t *testing.T) {
		score, err := store.VotePost(ctx, 1, "bob", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(11), score)

		score, err = store.VotePost(ctx, 1, "carol", -1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), score)

		score, err = store.VotePost(ctx, 2, "bob", -1)
		require.NoError(t, err)
		assert.Equal(t, int64(-1), score)

		karma, err := store.Karma(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(0), karma)

		score, err = store.VotePost(ctx, 2, "carol", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), score)

		karma, err = store.Karma(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(1), karma, "karma is floored at zero before moving up")
	})

	t.Run("Vote Post Twice", func(t *testing.T) {
		_, err := store.VotePost(ctx, 1, "bob", 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Vote Own Post", func(t *testing.T) {
		_, err := store.VotePost(ctx, 1, "alice", 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Vote Missing Post", func(t *testing.T) {
		_, err := store.VotePost(ctx, 404, "bob", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Vote Comment", func(t *testing.T) {
		score, err := store.VoteComment(ctx, 10, "alice", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), score)

		score, err = store.VoteComment(ctx, 10, "carol", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(3), score)

		karma, err := store.Karma(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, int64(2), karma)

		_, err = store.VoteComment(ctx, 10, "alice", 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = store.VoteComment(ctx, 10, "bob", 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = store.VoteComment(ctx, 404, "bob", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Karma Unknown User", func(t *testing.T) {
		karma, err := store.Karma(ctx, "nobody")
		require.NoError(t, err)
		assert.Equal(t, int64(0), karma)
	})

	t.Run("Delete Comment", func(t *testing.T) {
		err := store.DeleteComment(ctx, 11, domain.Actor{Name: "bob"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		require.NoError(t, store.DeleteComment(ctx, 11, domain.Actor{Name: "carol"}))

		err = store.DeleteComment(ctx, 11, domain.Actor{Name: "carol"})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = store.VoteComment(ctx, 11, "alice", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete Post Cascades", func(t *testing.T) {
		err := store.DeletePost(ctx, 2, domain.Actor{Name: "bob"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		require.NoError(t, store.DeletePost(ctx, 2, domain.Actor{Name: "alice"}))

		_, err = store.VotePost(ctx, 2, "bob", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = store.VoteComment(ctx, 20, "alice", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound, "comments go with their post")

		err = store.DeletePost(ctx, 2, domain.Actor{Name: "alice"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Moderator Deletes", func(t *testing.T) {
		require.NoError(t, store.AddPost(ctx, domain.Post{ID: 3, Author: "carol"}))
		require.NoError(t, store.AddComment(ctx, domain.Comment{ID: 30, PostID: 3, Author: "bob"}))

		err := store.DeleteComment(ctx, 10, domain.Actor{Name: "dave"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		require.NoError(t, store.DeleteComment(ctx, 10, domain.Actor{Name: "dave", Moderator: true}))
		_, err = store.VoteComment(ctx, 10, "carol", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = store.DeletePost(ctx, 3, domain.Actor{Name: "dave"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		require.NoError(t, store.DeletePost(ctx, 3, domain.Actor{Name: "dave", Moderator: true}))
		_, err = store.VoteComment(ctx, 30, "alice", 1)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		err = store.DeleteComment(ctx, 404, domain.Actor{Name: "dave", Moderator: true})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
