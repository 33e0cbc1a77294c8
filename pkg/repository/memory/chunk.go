package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

type chunkRepository struct {
	mu     sync.RWMutex
	chunks map[model.ChunkID]*model.VectorChunk
}

func newChunkRepository() *chunkRepository {
	return &chunkRepository{
		chunks: make(map[model.ChunkID]*model.VectorChunk),
	}
}

func (r *chunkRepository) Put(ctx context.Context, chunk *model.VectorChunk) (*model.VectorChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := chunk.Clone()
	if created.ID == "" {
		created.ID = model.NewChunkID()
	}
	created.Content = model.TruncateText(created.Content, model.MaxChunkContentLength)

	r.chunks[created.ID] = created
	return created.Clone(), nil
}

func (r *chunkRepository) ListByUser(ctx context.Context, userID string) ([]*model.VectorChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.VectorChunk
	for _, chunk := range r.chunks {
		if chunk.Metadata.UserID != userID {
			continue
		}
		result = append(result, chunk.Clone())
	}

	// Stable order for reproducible cache contents
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Metadata.CreatedAt.Equal(result[j].Metadata.CreatedAt) {
			return result[i].Metadata.CreatedAt.Before(result[j].Metadata.CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}
