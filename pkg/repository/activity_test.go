package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/domain/model"
)

func runActivityRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	putActivity := func(t *testing.T, repo interfaces.Repository, userID, conversationID, content string, at time.Time) {
		t.Helper()
		_, err := repo.Activity().Put(context.Background(), &model.ActivityRecord{
			UserID:         userID,
			ConversationID: conversationID,
			Role:           "user",
			Content:        content,
			CreatedAt:      at,
		})
		gt.NoError(t, err).Required()
	}

	t.Run("Recent returns newest first", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("act")
		base := time.Now().UTC().Add(-time.Hour)

		putActivity(t, repo, userID, "conv-1", "oldest", base)
		putActivity(t, repo, userID, "conv-1", "middle", base.Add(time.Minute))
		putActivity(t, repo, userID, "conv-1", "newest", base.Add(2*time.Minute))

		records, err := repo.Activity().Recent(ctx, userID, "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(3).Required()
		gt.Value(t, records[0].Content).Equal("newest")
		gt.Value(t, records[1].Content).Equal("middle")
		gt.Value(t, records[2].Content).Equal("oldest")
	})

	t.Run("Recent narrows by conversation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("act")
		base := time.Now().UTC().Add(-time.Hour)

		putActivity(t, repo, userID, "conv-a", "in thread", base)
		putActivity(t, repo, userID, "conv-b", "other thread", base.Add(time.Minute))

		records, err := repo.Activity().Recent(ctx, userID, "conv-a", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(1).Required()
		gt.Value(t, records[0].Content).Equal("in thread")
	})

	t.Run("Recent respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("act")
		base := time.Now().UTC().Add(-time.Hour)

		for i := 0; i < 6; i++ {
			putActivity(t, repo, userID, "conv-1", "message", base.Add(time.Duration(i)*time.Minute))
		}

		records, err := repo.Activity().Recent(ctx, userID, "", 4)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(4)
	})

	t.Run("Recent never leaks other users", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("act")

		putActivity(t, repo, uniqueUser("other"), "conv-1", "not yours", time.Now().UTC())

		records, err := repo.Activity().Recent(ctx, userID, "", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, records).Length(0)
	})
}

func TestMemoryActivityRepository(t *testing.T) {
	runActivityRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreActivityRepository(t *testing.T) {
	runActivityRepositoryTest(t, newFirestoreRepository)
}
