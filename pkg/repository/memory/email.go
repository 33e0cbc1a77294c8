package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

type emailRepository struct {
	mu      sync.RWMutex
	records map[model.EmailID]*model.EmailRecord
}

func newEmailRepository() *emailRepository {
	return &emailRepository{
		records: make(map[model.EmailID]*model.EmailRecord),
	}
}

// copyEmail creates a deep copy of an email record
func copyEmail(e *model.EmailRecord) *model.EmailRecord {
	copied := *e
	if e.To != nil {
		copied.To = make([]string, len(e.To))
		copy(copied.To, e.To)
	}
	return &copied
}

func (r *emailRepository) Put(ctx context.Context, record *model.EmailRecord) (*model.EmailRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyEmail(record)
	if created.ID == "" {
		created.ID = model.NewEmailID()
	}
	if created.ReceivedAt.IsZero() {
		created.ReceivedAt = time.Now().UTC()
	}

	r.records[created.ID] = created
	return copyEmail(created), nil
}

func (r *emailRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.EmailRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.EmailRecord
	for _, record := range r.records {
		if record.UserID != userID {
			continue
		}
		if !matchKeywords(keywords, record.From, record.Subject, record.Snippet, strings.Join(record.To, " ")) {
			continue
		}
		result = append(result, copyEmail(record))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ReceivedAt.After(result[j].ReceivedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
