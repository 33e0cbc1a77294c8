package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

type activityRepository struct {
	mu      sync.RWMutex
	records map[model.ActivityID]*model.ActivityRecord
}

func newActivityRepository() *activityRepository {
	return &activityRepository{
		records: make(map[model.ActivityID]*model.ActivityRecord),
	}
}

func (r *activityRepository) Put(ctx context.Context, record *model.ActivityRecord) (*model.ActivityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *record
	if created.ID == "" {
		created.ID = model.NewActivityID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.records[created.ID] = &created
	result := created
	return &result, nil
}

func (r *activityRepository) Recent(ctx context.Context, userID string, conversationID string, limit int) ([]*model.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.ActivityRecord
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if conversationID != "" && record.ConversationID != conversationID {
			continue
		}
		copied := *record
		result = append(result, &copied)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
