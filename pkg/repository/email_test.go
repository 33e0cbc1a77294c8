package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/domain/model"
)

func runEmailRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Search matches sender subject snippet and recipients", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("em")

		_, err := repo.Email().Put(ctx, &model.EmailRecord{
			UserID: userID, From: "alice@example.com", Subject: "Invoice attached",
			Snippet: "Please find the invoice",
		})
		gt.NoError(t, err).Required()
		_, err = repo.Email().Put(ctx, &model.EmailRecord{
			UserID: userID, From: "bob@example.com", Subject: "Lunch",
			To: []string{"carol@example.com"},
		})
		gt.NoError(t, err).Required()

		records, err := repo.Email().Search(ctx, userID, []string{"invoice"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1).Required()
		gt.Value(t, records[0].From).Equal("alice@example.com")

		records, err = repo.Email().Search(ctx, userID, []string{"carol"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1).Required()
		gt.Value(t, records[0].Subject).Equal("Lunch")
	})

	t.Run("Search orders by received time descending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("em")
		base := time.Now().UTC().Add(-time.Hour)

		_, err := repo.Email().Put(ctx, &model.EmailRecord{
			UserID: userID, Subject: "older update", ReceivedAt: base,
		})
		gt.NoError(t, err).Required()
		_, err = repo.Email().Put(ctx, &model.EmailRecord{
			UserID: userID, Subject: "newer update", ReceivedAt: base.Add(time.Minute),
		})
		gt.NoError(t, err).Required()

		records, err := repo.Email().Search(ctx, userID, []string{"update"}, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2).Required()
		gt.Value(t, records[0].Subject).Equal("newer update")
		gt.Value(t, records[1].Subject).Equal("older update")
	})

	t.Run("Put defaults received time", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Email().Put(ctx, &model.EmailRecord{
			UserID: uniqueUser("em"), Subject: "No timestamp",
		})
		gt.NoError(t, err).Required()
		gt.String(t, string(created.ID)).NotEqual("")
		gt.Bool(t, created.ReceivedAt.IsZero()).False()
	})

	t.Run("Search respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("em")

		for i := 0; i < 5; i++ {
			_, err := repo.Email().Put(ctx, &model.EmailRecord{
				UserID: userID, Subject: "digest",
			})
			gt.NoError(t, err).Required()
		}

		records, err := repo.Email().Search(ctx, userID, []string{"digest"}, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(2)
	})
}

func TestMemoryEmailRepository(t *testing.T) {
	runEmailRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreEmailRepository(t *testing.T) {
	runEmailRepositoryTest(t, newFirestoreRepository)
}
