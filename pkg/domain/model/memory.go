package model

import (
	"time"

	"github.com/google/uuid"
)

// MemoryID is a UUID-based identifier for MemoryNote
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// MemoryNote is a fact or observation distilled from past conversations.
// Notes carry an optional embedding so the memory source can fall back from
// semantic search to keyword matching when no query embedding is available.
type MemoryNote struct {
	ID             MemoryID
	UserID         string
	ConversationID string
	Content        string
	Embedding      []float32
	Importance     float64 // 0.0 - 1.0
	CreatedAt      time.Time
}
