package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

type fileRepository struct {
	mu      sync.RWMutex
	records map[model.FileID]*model.FileRecord
}

func newFileRepository() *fileRepository {
	return &fileRepository{
		records: make(map[model.FileID]*model.FileRecord),
	}
}

func (r *fileRepository) Put(ctx context.Context, record *model.FileRecord) (*model.FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *record
	if created.ID == "" {
		created.ID = model.NewFileID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if created.ModifiedAt.IsZero() {
		created.ModifiedAt = created.CreatedAt
	}

	r.records[created.ID] = &created
	result := created
	return &result, nil
}

func (r *fileRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.FileRecord
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if !matchKeywords(keywords, record.Name, record.Summary) {
			continue
		}
		copied := *record
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ModifiedAt.After(result[j].ModifiedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
