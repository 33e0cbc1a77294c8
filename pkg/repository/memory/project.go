package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
)

type projectRepository struct {
	mu       sync.RWMutex
	projects map[model.ProjectID]*model.Project
}

func newProjectRepository() *projectRepository {
	return &projectRepository{
		projects: make(map[model.ProjectID]*model.Project),
	}
}

// copyProject creates a deep copy of a project
func copyProject(p *model.Project) *model.Project {
	copied := *p
	if p.Tags != nil {
		copied.Tags = make([]string, len(p.Tags))
		copy(copied.Tags, p.Tags)
	}
	return &copied
}

func (r *projectRepository) Put(ctx context.Context, project *model.Project) (*model.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyProject(project)
	if created.ID == "" {
		created.ID = model.NewProjectID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.projects[created.ID] = created
	return copyProject(created), nil
}

func (r *projectRepository) Get(ctx context.Context, userID string, id model.ProjectID) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, exists := r.projects[id]
	if !exists || project.UserID != userID {
		return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
	}

	return copyProject(project), nil
}

func (r *projectRepository) List(ctx context.Context, userID string) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Project
	for _, project := range r.projects {
		if project.UserID != userID {
			continue
		}
		result = append(result, copyProject(project))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}
