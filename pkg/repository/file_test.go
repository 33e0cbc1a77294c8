package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/domain/model"
)

func runFileRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put assigns ID and defaults modified time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.File().Put(ctx, &model.FileRecord{
			UserID:   uniqueUser("file"),
			Name:     "report.pdf",
			MimeType: "application/pdf",
			Size:     2048,
		})
		gt.NoError(t, err).Required()
		gt.String(t, string(created.ID)).NotEqual("")
		gt.Bool(t, created.ModifiedAt.IsZero()).False()
	})

	t.Run("Search matches name and summary", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("file")

		_, err := repo.File().Put(ctx, &model.FileRecord{
			UserID: userID, Name: "budget-2026.xlsx", Summary: "Department spending",
		})
		gt.NoError(t, err).Required()
		_, err = repo.File().Put(ctx, &model.FileRecord{
			UserID: userID, Name: "notes.txt", Summary: "Budget assumptions for next year",
		})
		gt.NoError(t, err).Required()
		_, err = repo.File().Put(ctx, &model.FileRecord{
			UserID: userID, Name: "recipe.md", Summary: "Weeknight dinner ideas",
		})
		gt.NoError(t, err).Required()

		records, err := repo.File().Search(ctx, userID, []string{"budget"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
	})

	t.Run("Search orders by modified time descending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("file")
		base := time.Now().UTC().Add(-time.Hour)

		_, err := repo.File().Put(ctx, &model.FileRecord{
			UserID: userID, Name: "stale.doc", ModifiedAt: base,
		})
		gt.NoError(t, err).Required()
		_, err = repo.File().Put(ctx, &model.FileRecord{
			UserID: userID, Name: "fresh.doc", ModifiedAt: base.Add(time.Minute),
		})
		gt.NoError(t, err).Required()

		records, err := repo.File().Search(ctx, userID, []string{"doc"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2).Required()
		gt.Value(t, records[0].Name).Equal("fresh.doc")
		gt.Value(t, records[1].Name).Equal("stale.doc")
	})

	t.Run("Search respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("file")

		for i := 0; i < 5; i++ {
			_, err := repo.File().Put(ctx, &model.FileRecord{
				UserID: userID, Name: "draft.md",
			})
			gt.NoError(t, err).Required()
		}

		records, err := repo.File().Search(ctx, userID, []string{"draft"}, 3)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3)
	})
}

func TestMemoryFileRepository(t *testing.T) {
	runFileRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreFileRepository(t *testing.T) {
	runFileRepositoryTest(t, newFirestoreRepository)
}
