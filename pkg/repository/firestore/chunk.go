package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/domain/types"
	"google.golang.org/api/iterator"
)

// chunkDoc is the Firestore document representation of model.VectorChunk.
// Embedding is stored as firestore.Vector32; the vector index over it is
// provisioned by the migrate command.
type chunkDoc struct {
	ID         model.ChunkID      `firestore:"ID"`
	Content    string             `firestore:"Content"`
	Embedding  firestore.Vector32 `firestore:"Embedding,omitempty"`
	Source     string             `firestore:"Source,omitempty"`
	SourceID   string             `firestore:"SourceID,omitempty"`
	Type       string             `firestore:"Type,omitempty"`
	Title      string             `firestore:"Title,omitempty"`
	Tags       []string           `firestore:"Tags,omitempty"`
	Importance float64            `firestore:"Importance"`
	CreatedAt  time.Time          `firestore:"CreatedAt"`
	UserID     string             `firestore:"UserID"`
}

func toChunkDoc(c *model.VectorChunk) *chunkDoc {
	doc := &chunkDoc{
		ID:         c.ID,
		Content:    c.Content,
		Source:     c.Metadata.Source,
		SourceID:   c.Metadata.SourceID,
		Type:       string(c.Metadata.Type),
		Title:      c.Metadata.Title,
		Tags:       c.Metadata.Tags,
		Importance: c.Metadata.Importance,
		CreatedAt:  c.Metadata.CreatedAt,
		UserID:     c.Metadata.UserID,
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func fromChunkDoc(d *chunkDoc) *model.VectorChunk {
	c := &model.VectorChunk{
		ID:      d.ID,
		Content: d.Content,
		Metadata: model.ChunkMetadata{
			Source:     d.Source,
			SourceID:   d.SourceID,
			Type:       types.ChunkType(d.Type),
			Title:      d.Title,
			Tags:       d.Tags,
			Importance: d.Importance,
			CreatedAt:  d.CreatedAt,
			UserID:     d.UserID,
		},
	}
	if len(d.Embedding) > 0 {
		c.Embedding = []float32(d.Embedding)
	}
	return c
}

type chunkRepository struct {
	client *firestore.Client
}

func (r *chunkRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "chunks")
}

func (r *chunkRepository) Put(ctx context.Context, chunk *model.VectorChunk) (*model.VectorChunk, error) {
	saved := chunk.Clone()
	if saved.ID == "" {
		saved.ID = model.NewChunkID()
	}
	if saved.Metadata.CreatedAt.IsZero() {
		saved.Metadata.CreatedAt = time.Now().UTC()
	}
	saved.Content = model.TruncateText(saved.Content, model.MaxChunkContentLength)

	docRef := r.collection(saved.Metadata.UserID).Doc(string(saved.ID))
	if _, err := docRef.Set(ctx, toChunkDoc(saved)); err != nil {
		return nil, goerr.Wrap(err, "failed to put chunk", goerr.V("id", saved.ID))
	}

	return saved, nil
}

func (r *chunkRepository) ListByUser(ctx context.Context, userID string) ([]*model.VectorChunk, error) {
	query := r.collection(userID).OrderBy("CreatedAt", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.VectorChunk
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate chunks")
		}

		var d chunkDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk")
		}

		result = append(result, fromChunkDoc(&d))
	}

	return result, nil
}
