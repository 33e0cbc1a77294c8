package types

// Source names a context source adapter. The names appear in the
// ContextBundle sources set and in the formatted context footer, so they are
// part of the caller-visible contract and must stay stable.
type Source string

const (
	SourceKnowledgeBase Source = "knowledge_base"
	SourceMemory        Source = "memory"
	SourceFiles         Source = "files"
	SourceEmails        Source = "emails"
	SourceCalendar      Source = "calendar"
	SourceActivity      Source = "recent_activity"
	SourceProject       Source = "project"
	SourceVectorStore   Source = "vector_store"
)

// String returns the string representation of the Source
func (x Source) String() string {
	return string(x)
}
