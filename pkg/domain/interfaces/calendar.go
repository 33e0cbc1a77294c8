package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// CalendarRepository defines persistence for calendar events
type CalendarRepository interface {
	// Put creates or replaces a calendar event
	Put(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error)

	// Search returns up to limit events of the user that end at or after
	// `from` and match any keyword across title, description and location,
	// ordered by start time ascending. Empty keywords match everything.
	Search(ctx context.Context, userID string, keywords []string, from time.Time, limit int) ([]*model.CalendarEvent, error)
}
