package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// fileDoc is the Firestore document representation of model.FileRecord
type fileDoc struct {
	ID         model.FileID `firestore:"ID"`
	UserID     string       `firestore:"UserID"`
	Name       string       `firestore:"Name"`
	MimeType   string       `firestore:"MimeType,omitempty"`
	Summary    string       `firestore:"Summary,omitempty"`
	Size       int64        `firestore:"Size"`
	ModifiedAt time.Time    `firestore:"ModifiedAt"`
	CreatedAt  time.Time    `firestore:"CreatedAt"`
}

type fileRepository struct {
	client *firestore.Client
}

func (r *fileRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "files")
}

func (r *fileRepository) Put(ctx context.Context, record *model.FileRecord) (*model.FileRecord, error) {
	saved := *record
	if saved.ID == "" {
		saved.ID = model.NewFileID()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}
	if saved.ModifiedAt.IsZero() {
		saved.ModifiedAt = saved.CreatedAt
	}

	doc := &fileDoc{
		ID:         saved.ID,
		UserID:     saved.UserID,
		Name:       saved.Name,
		MimeType:   saved.MimeType,
		Summary:    saved.Summary,
		Size:       saved.Size,
		ModifiedAt: saved.ModifiedAt,
		CreatedAt:  saved.CreatedAt,
	}
	if _, err := r.collection(saved.UserID).Doc(string(saved.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put file record", goerr.V("id", saved.ID))
	}

	return &saved, nil
}

func (r *fileRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.FileRecord, error) {
	query := r.collection(userID).
		OrderBy("ModifiedAt", firestore.Desc).
		Limit(fetchLimit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.FileRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate file records")
		}

		var d fileDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal file record")
		}

		if !matchKeywords(keywords, d.Name, d.Summary) {
			continue
		}

		result = append(result, &model.FileRecord{
			ID:         d.ID,
			UserID:     d.UserID,
			Name:       d.Name,
			MimeType:   d.MimeType,
			Summary:    d.Summary,
			Size:       d.Size,
			ModifiedAt: d.ModifiedAt,
			CreatedAt:  d.CreatedAt,
		})
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}
