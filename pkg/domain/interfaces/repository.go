package interfaces

// Repository aggregates all per-table repositories backing the durable
// store. The retrieval subsystem only reads from it; ingestion pipelines
// (out of scope here) are the writers.
type Repository interface {
	Knowledge() KnowledgeRepository
	Memory() MemoryRepository
	File() FileRepository
	Email() EmailRepository
	Calendar() CalendarRepository
	Activity() ActivityRepository
	Project() ProjectRepository
	Chunk() ChunkRepository

	// Close releases underlying connections
	Close() error
}
