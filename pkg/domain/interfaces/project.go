package interfaces

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// ProjectRepository defines persistence for per-user project metadata
type ProjectRepository interface {
	// Put creates or replaces a project
	Put(ctx context.Context, project *model.Project) (*model.Project, error)

	// Get retrieves a project by ID, scoped to the owning user
	Get(ctx context.Context, userID string, id model.ProjectID) (*model.Project, error)

	// List returns all projects of the user ordered by update time descending
	List(ctx context.Context, userID string) ([]*model.Project, error)
}
