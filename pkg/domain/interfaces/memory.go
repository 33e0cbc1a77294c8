package interfaces

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// MemoryRepository defines persistence for conversation memory notes
type MemoryRepository interface {
	// Put creates or replaces a memory note
	Put(ctx context.Context, note *model.MemoryNote) (*model.MemoryNote, error)

	// Get retrieves a note by ID, scoped to the owning user
	Get(ctx context.Context, userID string, id model.MemoryID) (*model.MemoryNote, error)

	// Search returns up to limit notes of the user matching any keyword in
	// the note content, ordered by importance then recency
	Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.MemoryNote, error)

	// FindByEmbedding performs vector similarity search using cosine
	// distance. Returns up to limit notes most similar to the embedding.
	FindByEmbedding(ctx context.Context, userID string, embedding []float32, limit int) ([]*model.MemoryNote, error)
}
