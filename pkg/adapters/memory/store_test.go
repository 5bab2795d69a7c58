package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/newsmeme/pkg/adapters/memory"
	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/aretw0/newsmeme/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunVoteStoreContract(t, store)
}

func TestMemoryStore_CommentNeedsPost(t *testing.T) {
	store := memory.NewStore()
	err := store.AddComment(context.Background(), domain.Comment{ID: 1, PostID: 99, Author: "bob"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
