package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

type calendarRepository struct {
	mu     sync.RWMutex
	events map[model.EventID]*model.CalendarEvent
}

func newCalendarRepository() *calendarRepository {
	return &calendarRepository{
		events: make(map[model.EventID]*model.CalendarEvent),
	}
}

// copyEvent creates a deep copy of a calendar event
func copyEvent(e *model.CalendarEvent) *model.CalendarEvent {
	copied := *e
	if e.Attendees != nil {
		copied.Attendees = make([]string, len(e.Attendees))
		copy(copied.Attendees, e.Attendees)
	}
	return &copied
}

func (r *calendarRepository) Put(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyEvent(event)
	if created.ID == "" {
		created.ID = model.NewEventID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.events[created.ID] = created
	return copyEvent(created), nil
}

func (r *calendarRepository) Search(ctx context.Context, userID string, keywords []string, from time.Time, limit int) ([]*model.CalendarEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.CalendarEvent
	for _, event := range r.events {
		if event.UserID != userID {
			continue
		}
		if event.EndsAt.Before(from) {
			continue
		}
		if !matchKeywords(keywords, event.Title, event.Description, event.Location) {
			continue
		}
		result = append(result, copyEvent(event))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].StartsAt.Before(result[j].StartsAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
