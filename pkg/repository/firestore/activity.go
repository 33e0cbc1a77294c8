package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// activityDoc is the Firestore document representation of model.ActivityRecord
type activityDoc struct {
	ID             model.ActivityID `firestore:"ID"`
	UserID         string           `firestore:"UserID"`
	ConversationID string           `firestore:"ConversationID,omitempty"`
	Role           string           `firestore:"Role"`
	Content        string           `firestore:"Content"`
	CreatedAt      time.Time        `firestore:"CreatedAt"`
}

type activityRepository struct {
	client *firestore.Client
}

func (r *activityRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "activities")
}

func (r *activityRepository) Put(ctx context.Context, record *model.ActivityRecord) (*model.ActivityRecord, error) {
	saved := *record
	if saved.ID == "" {
		saved.ID = model.NewActivityID()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}

	doc := &activityDoc{
		ID:             saved.ID,
		UserID:         saved.UserID,
		ConversationID: saved.ConversationID,
		Role:           saved.Role,
		Content:        saved.Content,
		CreatedAt:      saved.CreatedAt,
	}
	if _, err := r.collection(saved.UserID).Doc(string(saved.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put activity record", goerr.V("id", saved.ID))
	}

	return &saved, nil
}

func (r *activityRepository) Recent(ctx context.Context, userID string, conversationID string, limit int) ([]*model.ActivityRecord, error) {
	query := r.collection(userID).Query
	if conversationID != "" {
		query = query.Where("ConversationID", "==", conversationID)
	}
	query = query.OrderBy("CreatedAt", firestore.Desc).Limit(limit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.ActivityRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate activity records")
		}

		var d activityDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal activity record")
		}

		result = append(result, &model.ActivityRecord{
			ID:             d.ID,
			UserID:         d.UserID,
			ConversationID: d.ConversationID,
			Role:           d.Role,
			Content:        d.Content,
			CreatedAt:      d.CreatedAt,
		})
	}

	return result, nil
}
