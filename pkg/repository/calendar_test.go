package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/domain/model"
)

func runCalendarRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	putEvent := func(t *testing.T, repo interfaces.Repository, userID, title string, startsAt, endsAt time.Time) {
		t.Helper()
		_, err := repo.Calendar().Put(context.Background(), &model.CalendarEvent{
			UserID:   userID,
			Title:    title,
			StartsAt: startsAt,
			EndsAt:   endsAt,
		})
		gt.NoError(t, err).Required()
	}

	t.Run("Search excludes events ended before from", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("cal")
		now := time.Now().UTC()

		putEvent(t, repo, userID, "Past sync", now.Add(-2*time.Hour), now.Add(-time.Hour))
		putEvent(t, repo, userID, "Ongoing review", now.Add(-time.Hour), now.Add(time.Hour))
		putEvent(t, repo, userID, "Tomorrow planning", now.Add(24*time.Hour), now.Add(25*time.Hour))

		events, err := repo.Calendar().Search(ctx, userID, nil, now, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(2).Required()
		gt.Value(t, events[0].Title).Equal("Ongoing review")
		gt.Value(t, events[1].Title).Equal("Tomorrow planning")
	})

	t.Run("Search orders by start time ascending", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("cal")
		now := time.Now().UTC()

		putEvent(t, repo, userID, "Later", now.Add(3*time.Hour), now.Add(4*time.Hour))
		putEvent(t, repo, userID, "Sooner", now.Add(time.Hour), now.Add(2*time.Hour))

		events, err := repo.Calendar().Search(ctx, userID, nil, now, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(2).Required()
		gt.Value(t, events[0].Title).Equal("Sooner")
		gt.Value(t, events[1].Title).Equal("Later")
	})

	t.Run("Search matches keywords in title description location", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("cal")
		now := time.Now().UTC()

		_, err := repo.Calendar().Put(ctx, &model.CalendarEvent{
			UserID:      userID,
			Title:       "Weekly sync",
			Description: "Budget planning for Q4",
			StartsAt:    now.Add(time.Hour),
			EndsAt:      now.Add(2 * time.Hour),
		})
		gt.NoError(t, err).Required()
		_, err = repo.Calendar().Put(ctx, &model.CalendarEvent{
			UserID:   userID,
			Title:    "Dentist",
			Location: "Downtown clinic",
			StartsAt: now.Add(3 * time.Hour),
			EndsAt:   now.Add(4 * time.Hour),
		})
		gt.NoError(t, err).Required()

		events, err := repo.Calendar().Search(ctx, userID, []string{"budget"}, now, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(1).Required()
		gt.Value(t, events[0].Title).Equal("Weekly sync")

		events, err = repo.Calendar().Search(ctx, userID, []string{"clinic"}, now, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(1).Required()
		gt.Value(t, events[0].Title).Equal("Dentist")
	})

	t.Run("Search respects limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		userID := uniqueUser("cal")
		now := time.Now().UTC()

		for i := 0; i < 5; i++ {
			putEvent(t, repo, userID, "Slot", now.Add(time.Duration(i+1)*time.Hour), now.Add(time.Duration(i+2)*time.Hour))
		}

		events, err := repo.Calendar().Search(ctx, userID, nil, now, 2)
		gt.NoError(t, err).Required()
		gt.Array(t, events).Length(2)
	})
}

func TestMemoryCalendarRepository(t *testing.T) {
	runCalendarRepositoryTest(t, newMemoryRepository)
}

func TestFirestoreCalendarRepository(t *testing.T) {
	runCalendarRepositoryTest(t, newFirestoreRepository)
}
