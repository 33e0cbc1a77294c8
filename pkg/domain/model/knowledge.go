package model

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeID is a UUID-based identifier for KnowledgeRecord
type KnowledgeID string

// NewKnowledgeID generates a new UUID v4 KnowledgeID
func NewKnowledgeID() KnowledgeID {
	return KnowledgeID(uuid.New().String())
}

// KnowledgeRecord is a curated fact or note in the user's knowledge base.
// Records are written by ingestion pipelines outside this subsystem and are
// read here during context gathering.
type KnowledgeRecord struct {
	ID         KnowledgeID
	UserID     string
	Title      string
	Content    string
	Category   string
	Tags       []string
	Importance float64 // 0.0 - 1.0, drives retrieval priority
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
