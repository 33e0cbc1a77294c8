package interfaces

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// EmailRepository defines persistence for indexed email metadata
type EmailRepository interface {
	// Put creates or replaces an email record
	Put(ctx context.Context, record *model.EmailRecord) (*model.EmailRecord, error)

	// Search returns up to limit records of the user matching any keyword
	// across sender, subject and snippet, ordered by receipt time descending
	Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.EmailRecord, error)
}
