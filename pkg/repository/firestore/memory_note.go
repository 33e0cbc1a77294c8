package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// memoryDoc is the Firestore document representation of model.MemoryNote.
// Embedding is stored as firestore.Vector32 so FindNearest vector search works.
type memoryDoc struct {
	ID             model.MemoryID     `firestore:"ID"`
	UserID         string             `firestore:"UserID"`
	ConversationID string             `firestore:"ConversationID,omitempty"`
	Content        string             `firestore:"Content"`
	Embedding      firestore.Vector32 `firestore:"Embedding,omitempty"`
	Importance     float64            `firestore:"Importance"`
	CreatedAt      time.Time          `firestore:"CreatedAt"`
}

func toMemoryDoc(n *model.MemoryNote) *memoryDoc {
	doc := &memoryDoc{
		ID:             n.ID,
		UserID:         n.UserID,
		ConversationID: n.ConversationID,
		Content:        n.Content,
		Importance:     n.Importance,
		CreatedAt:      n.CreatedAt,
	}
	if len(n.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(n.Embedding)
	}
	return doc
}

func fromMemoryDoc(d *memoryDoc) *model.MemoryNote {
	n := &model.MemoryNote{
		ID:             d.ID,
		UserID:         d.UserID,
		ConversationID: d.ConversationID,
		Content:        d.Content,
		Importance:     d.Importance,
		CreatedAt:      d.CreatedAt,
	}
	if len(d.Embedding) > 0 {
		n.Embedding = []float32(d.Embedding)
	}
	return n
}

type memoryRepository struct {
	client *firestore.Client
}

func (r *memoryRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "memories")
}

func (r *memoryRepository) Put(ctx context.Context, note *model.MemoryNote) (*model.MemoryNote, error) {
	saved := *note
	if saved.ID == "" {
		saved.ID = model.NewMemoryID()
	}
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = time.Now().UTC()
	}

	docRef := r.collection(saved.UserID).Doc(string(saved.ID))
	if _, err := docRef.Set(ctx, toMemoryDoc(&saved)); err != nil {
		return nil, goerr.Wrap(err, "failed to put memory note", goerr.V("id", saved.ID))
	}

	return &saved, nil
}

func (r *memoryRepository) Get(ctx context.Context, userID string, id model.MemoryID) (*model.MemoryNote, error) {
	doc, err := r.collection(userID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "memory note not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get memory note", goerr.V("id", id))
	}

	var d memoryDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal memory note", goerr.V("id", id))
	}

	return fromMemoryDoc(&d), nil
}

func (r *memoryRepository) Search(ctx context.Context, userID string, keywords []string, limit int) ([]*model.MemoryNote, error) {
	query := r.collection(userID).
		OrderBy("Importance", firestore.Desc).
		OrderBy("CreatedAt", firestore.Desc).
		Limit(fetchLimit)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.MemoryNote
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory notes")
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory note")
		}

		note := fromMemoryDoc(&d)
		if !matchKeywords(keywords, note.Content) {
			continue
		}

		result = append(result, note)
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}

func (r *memoryRepository) FindByEmbedding(ctx context.Context, userID string, embedding []float32, limit int) ([]*model.MemoryNote, error) {
	vq := r.collection(userID).
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	notes := make([]*model.MemoryNote, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memory vector search results")
		}

		var d memoryDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory note from vector search")
		}

		notes = append(notes, fromMemoryDoc(&d))
	}

	return notes, nil
}
