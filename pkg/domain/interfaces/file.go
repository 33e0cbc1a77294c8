package interfaces

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// FileRepository defines persistence for indexed file metadata
type FileRepository interface {
	// Put creates or replaces a file record
	Put(ctx context.Context, record *model.FileRecord) (*model.FileRecord, error)

	// Search returns up to limit records of the user matching any keyword
	// across name and summary, ordered by modification time descending
	Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.FileRecord, error)
}
