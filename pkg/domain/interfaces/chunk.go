package interfaces

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// ChunkRepository defines persistence for the long-term vector store.
// This is the durable copy behind the in-process vector cache: the cache
// reloads a user's whole chunk set from here when it goes stale.
type ChunkRepository interface {
	// Put stores a chunk. Chunks are immutable; callers store new chunks
	// instead of mutating existing ones.
	Put(ctx context.Context, chunk *model.VectorChunk) (*model.VectorChunk, error)

	// ListByUser returns every chunk owned by the user
	ListByUser(ctx context.Context, userID string) ([]*model.VectorChunk, error)
}
