package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
)

type knowledgeRepository struct {
	mu      sync.RWMutex
	records map[model.KnowledgeID]*model.KnowledgeRecord
}

func newKnowledgeRepository() *knowledgeRepository {
	return &knowledgeRepository{
		records: make(map[model.KnowledgeID]*model.KnowledgeRecord),
	}
}

// copyKnowledge creates a deep copy of a knowledge record
func copyKnowledge(r *model.KnowledgeRecord) *model.KnowledgeRecord {
	copied := *r
	if r.Tags != nil {
		copied.Tags = make([]string, len(r.Tags))
		copy(copied.Tags, r.Tags)
	}
	return &copied
}

func (r *knowledgeRepository) Put(ctx context.Context, record *model.KnowledgeRecord) (*model.KnowledgeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyKnowledge(record)
	if created.ID == "" {
		created.ID = model.NewKnowledgeID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.records[created.ID] = created
	return copyKnowledge(created), nil
}

func (r *knowledgeRepository) Get(ctx context.Context, userID string, id model.KnowledgeID) (*model.KnowledgeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists || record.UserID != userID {
		return nil, goerr.Wrap(ErrNotFound, "knowledge record not found", goerr.V("id", id))
	}

	return copyKnowledge(record), nil
}

func (r *knowledgeRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.KnowledgeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.KnowledgeRecord
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if !matchKeywords(keywords, record.Title, record.Content, record.Category, strings.Join(record.Tags, " ")) {
			continue
		}
		result = append(result, copyKnowledge(record))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Importance != result[j].Importance {
			return result[i].Importance > result[j].Importance
		}
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
