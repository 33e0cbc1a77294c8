package model

import (
	"time"

	"github.com/google/uuid"
)

// FileID is a UUID-based identifier for FileRecord
type FileID string

// NewFileID generates a new UUID v4 FileID
func NewFileID() FileID {
	return FileID(uuid.New().String())
}

// FileRecord is the indexed metadata of a user file. The file body itself
// lives in external storage; only the name and summary are searchable here.
type FileRecord struct {
	ID         FileID
	UserID     string
	Name       string
	MimeType   string
	Summary    string
	Size       int64
	ModifiedAt time.Time
	CreatedAt  time.Time
}
