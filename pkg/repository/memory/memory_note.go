package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
)

type memoryRepository struct {
	mu    sync.RWMutex
	notes map[model.MemoryID]*model.MemoryNote
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		notes: make(map[model.MemoryID]*model.MemoryNote),
	}
}

// copyNote creates a deep copy of a memory note
func copyNote(n *model.MemoryNote) *model.MemoryNote {
	copied := *n
	if n.Embedding != nil {
		copied.Embedding = make([]float32, len(n.Embedding))
		copy(copied.Embedding, n.Embedding)
	}
	return &copied
}

func (r *memoryRepository) Put(ctx context.Context, note *model.MemoryNote) (*model.MemoryNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyNote(note)
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.notes[created.ID] = created
	return copyNote(created), nil
}

func (r *memoryRepository) Get(ctx context.Context, userID string, id model.MemoryID) (*model.MemoryNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[id]
	if !exists || note.UserID != userID {
		return nil, goerr.Wrap(ErrNotFound, "memory note not found", goerr.V("id", id))
	}

	return copyNote(note), nil
}

func (r *memoryRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.MemoryNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.MemoryNote
	for _, note := range r.notes {
		if note.UserID != userID {
			continue
		}
		if !matchKeywords(keywords, note.Content) {
			continue
		}
		result = append(result, copyNote(note))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Importance != result[j].Importance {
			return result[i].Importance > result[j].Importance
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *memoryRepository) FindByEmbedding(ctx context.Context, userID string, embedding []float32, limit int) ([]*model.MemoryNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		note  *model.MemoryNote
		score float64
	}

	var candidates []scored
	for _, note := range r.notes {
		if note.UserID != userID || len(note.Embedding) == 0 {
			continue
		}

		score, err := model.CosineSimilarity(embedding, note.Embedding)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to score memory note", goerr.V("id", note.ID))
		}
		candidates = append(candidates, scored{note: copyNote(note), score: score})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]*model.MemoryNote, len(candidates))
	for i, c := range candidates {
		result[i] = c.note
	}

	return result, nil
}
