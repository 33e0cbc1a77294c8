package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// emailDoc is the Firestore document representation of model.EmailRecord
type emailDoc struct {
	ID         model.EmailID `firestore:"ID"`
	UserID     string        `firestore:"UserID"`
	From       string        `firestore:"From"`
	To         []string      `firestore:"To,omitempty"`
	Subject    string        `firestore:"Subject"`
	Snippet    string        `firestore:"Snippet,omitempty"`
	ReceivedAt time.Time     `firestore:"ReceivedAt"`
}

type emailRepository struct {
	client *firestore.Client
}

func (r *emailRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "emails")
}

func (r *emailRepository) Put(ctx context.Context, record *model.EmailRecord) (*model.EmailRecord, error) {
	saved := *record
	if saved.ID == "" {
		saved.ID = model.NewEmailID()
	}
	if saved.ReceivedAt.IsZero() {
		saved.ReceivedAt = time.Now().UTC()
	}

	doc := &emailDoc{
		ID:         saved.ID,
		UserID:     saved.UserID,
		From:       saved.From,
		To:         saved.To,
		Subject:    saved.Subject,
		Snippet:    saved.Snippet,
		ReceivedAt: saved.ReceivedAt,
	}
	if _, err := r.collection(saved.UserID).Doc(string(saved.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put email record", goerr.V("id", saved.ID))
	}

	return &saved, nil
}

func (r *emailRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.EmailRecord, error) {
	query := r.collection(userID).
		OrderBy("ReceivedAt", firestore.Desc).
		Limit(fetchLimit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.EmailRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate email records")
		}

		var d emailDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal email record")
		}

		if !matchKeywords(keywords, d.From, d.Subject, d.Snippet, strings.Join(d.To, " ")) {
			continue
		}

		result = append(result, &model.EmailRecord{
			ID:         d.ID,
			UserID:     d.UserID,
			From:       d.From,
			To:         d.To,
			Subject:    d.Subject,
			Snippet:    d.Snippet,
			ReceivedAt: d.ReceivedAt,
		})
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}
