package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// knowledgeDoc is the Firestore document representation of model.KnowledgeRecord
type knowledgeDoc struct {
	ID         model.KnowledgeID `firestore:"ID"`
	UserID     string            `firestore:"UserID"`
	Title      string            `firestore:"Title"`
	Content    string            `firestore:"Content"`
	Category   string            `firestore:"Category"`
	Tags       []string          `firestore:"Tags,omitempty"`
	Importance float64           `firestore:"Importance"`
	CreatedAt  time.Time         `firestore:"CreatedAt"`
	UpdatedAt  time.Time         `firestore:"UpdatedAt"`
}

func toKnowledgeDoc(r *model.KnowledgeRecord) *knowledgeDoc {
	return &knowledgeDoc{
		ID:         r.ID,
		UserID:     r.UserID,
		Title:      r.Title,
		Content:    r.Content,
		Category:   r.Category,
		Tags:       r.Tags,
		Importance: r.Importance,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func fromKnowledgeDoc(d *knowledgeDoc) *model.KnowledgeRecord {
	return &model.KnowledgeRecord{
		ID:         d.ID,
		UserID:     d.UserID,
		Title:      d.Title,
		Content:    d.Content,
		Category:   d.Category,
		Tags:       d.Tags,
		Importance: d.Importance,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type knowledgeRepository struct {
	client *firestore.Client
}

func (r *knowledgeRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "knowledge")
}

func (r *knowledgeRepository) Put(ctx context.Context, record *model.KnowledgeRecord) (*model.KnowledgeRecord, error) {
	saved := *record
	if saved.ID == "" {
		saved.ID = model.NewKnowledgeID()
	}
	now := time.Now().UTC()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	docRef := r.collection(saved.UserID).Doc(string(saved.ID))
	if _, err := docRef.Set(ctx, toKnowledgeDoc(&saved)); err != nil {
		return nil, goerr.Wrap(err, "failed to put knowledge record", goerr.V("id", saved.ID))
	}

	return &saved, nil
}

func (r *knowledgeRepository) Get(ctx context.Context, userID string, id model.KnowledgeID) (*model.KnowledgeRecord, error) {
	doc, err := r.collection(userID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "knowledge record not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get knowledge record", goerr.V("id", id))
	}

	var d knowledgeDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal knowledge record", goerr.V("id", id))
	}

	return fromKnowledgeDoc(&d), nil
}

func (r *knowledgeRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.KnowledgeRecord, error) {
	query := r.collection(userID).
		OrderBy("Importance", firestore.Desc).
		OrderBy("UpdatedAt", firestore.Desc).
		Limit(fetchLimit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.KnowledgeRecord
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate knowledge records")
		}

		var d knowledgeDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal knowledge record")
		}

		record := fromKnowledgeDoc(&d)
		if !matchKeywords(keywords, record.Title, record.Content, record.Category, strings.Join(record.Tags, " ")) {
			continue
		}

		result = append(result, record)
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}
