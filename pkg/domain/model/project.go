package model

import (
	"time"

	"github.com/google/uuid"
)

// ProjectID is a UUID-based identifier for Project
type ProjectID string

// NewProjectID generates a new UUID v4 ProjectID
func NewProjectID() ProjectID {
	return ProjectID(uuid.New().String())
}

// Project is per-user project metadata. When the caller supplies an
// explicit project scope, the matching Project is attached to the bundle
// as projectContext and context gathering is never skipped.
type Project struct {
	ID          ProjectID
	UserID      string
	Name        string
	Description string
	Status      string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
