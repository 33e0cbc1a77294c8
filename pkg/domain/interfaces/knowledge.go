package interfaces

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// KnowledgeRepository defines persistence for knowledge base records
type KnowledgeRepository interface {
	// Put creates or replaces a knowledge record
	Put(ctx context.Context, record *model.KnowledgeRecord) (*model.KnowledgeRecord, error)

	// Get retrieves a record by ID, scoped to the owning user
	Get(ctx context.Context, userID string, id model.KnowledgeID) (*model.KnowledgeRecord, error)

	// Search returns up to limit records of the user matching any of the
	// keywords across title, content, category and tags, ordered by
	// importance then recency. Empty keywords match everything.
	Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.KnowledgeRecord, error)
}
