package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("record not found")

// fetchLimit bounds how many candidate documents a keyword search pulls
// before client-side filtering. Firestore has no substring operator, so the
// OR keyword filter runs on the client over this window.
const fetchLimit = 50

// Firestore is the durable Repository implementation backed by Cloud
// Firestore. Records live in per-user subcollections:
// users/{userID}/{collection}/{docID}
type Firestore struct {
	client    *firestore.Client
	knowledge *knowledgeRepository
	memory    *memoryRepository
	file      *fileRepository
	email     *emailRepository
	calendar  *calendarRepository
	activity  *activityRepository
	project   *projectRepository
	chunk     *chunkRepository
}

var _ interfaces.Repository = &Firestore{}

// New creates a Firestore repository. An empty databaseID selects the
// default database of the project.
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	return &Firestore{
		client:    client,
		knowledge: &knowledgeRepository{client: client},
		memory:    &memoryRepository{client: client},
		file:      &fileRepository{client: client},
		email:     &emailRepository{client: client},
		calendar:  &calendarRepository{client: client},
		activity:  &activityRepository{client: client},
		project:   &projectRepository{client: client},
		chunk:     &chunkRepository{client: client},
	}, nil
}

func (f *Firestore) Knowledge() interfaces.KnowledgeRepository {
	return f.knowledge
}

func (f *Firestore) Memory() interfaces.MemoryRepository {
	return f.memory
}

func (f *Firestore) File() interfaces.FileRepository {
	return f.file
}

func (f *Firestore) Email() interfaces.EmailRepository {
	return f.email
}

func (f *Firestore) Calendar() interfaces.CalendarRepository {
	return f.calendar
}

func (f *Firestore) Activity() interfaces.ActivityRepository {
	return f.activity
}

func (f *Firestore) Project() interfaces.ProjectRepository {
	return f.project
}

func (f *Firestore) Chunk() interfaces.ChunkRepository {
	return f.chunk
}

func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}

// userCollection returns the subcollection path users/{userID}/{name}
func userCollection(client *firestore.Client, userID, name string) *firestore.CollectionRef {
	return client.Collection("users").Doc(userID).Collection(name)
}
