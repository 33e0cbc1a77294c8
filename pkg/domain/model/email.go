package model

import (
	"time"

	"github.com/google/uuid"
)

// EmailID is a UUID-based identifier for EmailRecord
type EmailID string

// NewEmailID generates a new UUID v4 EmailID
func NewEmailID() EmailID {
	return EmailID(uuid.New().String())
}

// EmailRecord is the indexed metadata of a received email
type EmailRecord struct {
	ID         EmailID
	UserID     string
	From       string
	To         []string
	Subject    string
	Snippet    string
	ReceivedAt time.Time
}
