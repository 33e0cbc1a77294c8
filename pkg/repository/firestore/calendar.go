package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// eventDoc is the Firestore document representation of model.CalendarEvent
type eventDoc struct {
	ID          model.EventID `firestore:"ID"`
	UserID      string        `firestore:"UserID"`
	Title       string        `firestore:"Title"`
	Description string        `firestore:"Description,omitempty"`
	Location    string        `firestore:"Location,omitempty"`
	Attendees   []string      `firestore:"Attendees,omitempty"`
	StartsAt    time.Time     `firestore:"StartsAt"`
	EndsAt      time.Time     `firestore:"EndsAt"`
	CreatedAt   time.Time     `firestore:"CreatedAt"`
}

type calendarRepository struct {
	client *firestore.Client
}

func (r *calendarRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "events")
}

func (r *calendarRepository) Put(ctx context.Context, event *model.CalendarEvent) (*model.CalendarEvent, error) {
	saved := *event
	if saved.ID == "" {
		saved.ID = model.NewEventID()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}

	doc := &eventDoc{
		ID:          saved.ID,
		UserID:      saved.UserID,
		Title:       saved.Title,
		Description: saved.Description,
		Location:    saved.Location,
		Attendees:   saved.Attendees,
		StartsAt:    saved.StartsAt,
		EndsAt:      saved.EndsAt,
		CreatedAt:   saved.CreatedAt,
	}
	if _, err := r.collection(saved.UserID).Doc(string(saved.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put calendar event", goerr.V("id", saved.ID))
	}

	return &saved, nil
}

func (r *calendarRepository) Search(ctx context.Context, userID string, keywords []string, from time.Time, limit int) ([]*model.CalendarEvent, error) {
	query := r.collection(userID).
		Where("EndsAt", ">=", from).
		OrderBy("EndsAt", firestore.Asc).
		OrderBy("StartsAt", firestore.Asc).
		Limit(fetchLimit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.CalendarEvent
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate calendar events")
		}

		var d eventDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal calendar event")
		}

		if !matchKeywords(keywords, d.Title, d.Description, d.Location) {
			continue
		}

		result = append(result, &model.CalendarEvent{
			ID:          d.ID,
			UserID:      d.UserID,
			Title:       d.Title,
			Description: d.Description,
			Location:    d.Location,
			Attendees:   d.Attendees,
			StartsAt:    d.StartsAt,
			EndsAt:      d.EndsAt,
			CreatedAt:   d.CreatedAt,
		})
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}
