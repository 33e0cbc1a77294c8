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

// projectDoc is the Firestore document representation of model.Project
type projectDoc struct {
	ID          model.ProjectID `firestore:"ID"`
	UserID      string          `firestore:"UserID"`
	Name        string          `firestore:"Name"`
	Description string          `firestore:"Description,omitempty"`
	Status      string          `firestore:"Status,omitempty"`
	Tags        []string        `firestore:"Tags,omitempty"`
	CreatedAt   time.Time       `firestore:"CreatedAt"`
	UpdatedAt   time.Time       `firestore:"UpdatedAt"`
}

func fromProjectDoc(d *projectDoc) *model.Project {
	return &model.Project{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Description: d.Description,
		Status:      d.Status,
		Tags:        d.Tags,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type projectRepository struct {
	client *firestore.Client
}

func (r *projectRepository) collection(userID string) *firestore.CollectionRef {
	return userCollection(r.client, userID, "projects")
}

func (r *projectRepository) Put(ctx context.Context, project *model.Project) (*model.Project, error) {
	saved := *project
	if saved.ID == "" {
		saved.ID = model.NewProjectID()
	}
	now := time.Now().UTC()
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	doc := &projectDoc{
		ID:          saved.ID,
		UserID:      saved.UserID,
		Name:        saved.Name,
		Description: saved.Description,
		Status:      saved.Status,
		Tags:        saved.Tags,
		CreatedAt:   saved.CreatedAt,
		UpdatedAt:   saved.UpdatedAt,
	}
	if _, err := r.collection(saved.UserID).Doc(string(saved.ID)).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to put project", goerr.V("id", saved.ID))
	}

	return &saved, nil
}

func (r *projectRepository) Get(ctx context.Context, userID string, id model.ProjectID) (*model.Project, error) {
	doc, err := r.collection(userID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "project not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("id", id))
	}

	var d projectDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal project", goerr.V("id", id))
	}

	return fromProjectDoc(&d), nil
}

func (r *projectRepository) List(ctx context.Context, userID string) ([]*model.Project, error) {
	query := r.collection(userID).OrderBy("UpdatedAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var result []*model.Project
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate projects")
		}

		var d projectDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal project")
		}

		result = append(result, fromProjectDoc(&d))
	}

	return result, nil
}
