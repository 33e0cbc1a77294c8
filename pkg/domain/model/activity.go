package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityID is a UUID-based identifier for ActivityRecord
type ActivityID string

// NewActivityID generates a new UUID v4 ActivityID
func NewActivityID() ActivityID {
	return ActivityID(uuid.New().String())
}

// ActivityRecord is one entry of the recent message/activity log. It gives
// the assistant short-term conversational continuity across requests.
type ActivityRecord struct {
	ID             ActivityID
	UserID         string
	ConversationID string
	Role           string // "user" or "assistant"
	Content        string
	CreatedAt      time.Time
}
