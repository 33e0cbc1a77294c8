package model

import (
	"time"

	"github.com/google/uuid"
)

// EventID is a UUID-based identifier for CalendarEvent
type EventID string

// NewEventID generates a new UUID v4 EventID
func NewEventID() EventID {
	return EventID(uuid.New().String())
}

// CalendarEvent is a scheduled event on the user's calendar
type CalendarEvent struct {
	ID          EventID
	UserID      string
	Title       string
	Description string
	Location    string
	Attendees   []string
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
}
