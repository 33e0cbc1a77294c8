package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/repository/firestore"
	"github.com/secmon-lab/butler/pkg/repository/memory"
)

func runProjectRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put and Get round trip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("prj")

		created, err := repo.Project().Put(ctx, &model.Project{
			UserID:      userID,
			Name:        "Migration",
			Description: "Move billing to the new stack",
			Status:      "active",
			Tags:        []string{"billing"},
		})
		gt.NoError(t, err).Required()
		gt.String(t, string(created.ID)).NotEqual("")
		gt.Bool(t, created.UpdatedAt.IsZero()).False()

		retrieved, err := repo.Project().Get(ctx, userID, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Name).Equal("Migration")
		gt.Value(t, retrieved.Status).Equal("active")
	})

	t.Run("Get scoped to owner", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Project().Put(ctx, &model.Project{
			UserID: uniqueUser("prj"), Name: "Private",
		})
		gt.NoError(t, err).Required()

		_, err = repo.Project().Get(ctx, "other-user", created.ID)
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)).True()
	})

	t.Run("List returns most recently updated first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("prj")

		_, err := repo.Project().Put(ctx, &model.Project{UserID: userID, Name: "First"})
		gt.NoError(t, err).Required()
		second, err := repo.Project().Put(ctx, &model.Project{UserID: userID, Name: "Second"})
		gt.NoError(t, err).Required()

		// Updating a project moves it to the front
		_, err = repo.Project().Put(ctx, second)
		gt.NoError(t, err).Required()

		projects, err := repo.Project().List(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, projects).Length(2).Required()
		gt.Value(t, projects[0].Name).Equal("Second")
	})

	t.Run("List never leaks other users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("prj")

		_, err := repo.Project().Put(ctx, &model.Project{
			UserID: uniqueUser("other"), Name: "Hidden",
		})
		gt.NoError(t, err).Required()

		projects, err := repo.Project().List(ctx, userID)
		gt.NoError(t, err).Required()
		gt.Array(t, projects).Length(0)
	})
}

func TestMemoryProjectRepository(t *testing.T) {
	runProjectRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreProjectRepository(t *testing.T) {
	runProjectRepositoryTest(t, newFirestoreRepository)
}
