package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("record not found")

// Memory is an in-memory Repository implementation. It backs development
// mode and tests; production uses the Firestore implementation.
type Memory struct {
	knowledge *knowledgeRepository
	memory    *memoryRepository
	file      *fileRepository
	email     *emailRepository
	calendar  *calendarRepository
	activity  *activityRepository
	project   *projectRepository
	chunk     *chunkRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an empty in-memory repository
func New() *Memory {
	return &Memory{
		knowledge: newKnowledgeRepository(),
		memory:    newMemoryRepository(),
		file:      newFileRepository(),
		email:     newEmailRepository(),
		calendar:  newCalendarRepository(),
		activity:  newActivityRepository(),
		project:   newProjectRepository(),
		chunk:     newChunkRepository(),
	}
}

func (m *Memory) Knowledge() interfaces.KnowledgeRepository {
	return m.knowledge
}

func (m *Memory) Memory() interfaces.MemoryRepository {
	return m.memory
}

func (m *Memory) File() interfaces.FileRepository {
	return m.file
}

func (m *Memory) Email() interfaces.EmailRepository {
	return m.email
}

func (m *Memory) Calendar() interfaces.CalendarRepository {
	return m.calendar
}

func (m *Memory) Activity() interfaces.ActivityRepository {
	return m.activity
}

func (m *Memory) Project() interfaces.ProjectRepository {
	return m.project
}

func (m *Memory) Chunk() interfaces.ChunkRepository {
	return m.chunk
}

func (m *Memory) Close() error {
	return nil
}
