package model

import (
	"github.com/secmon-lab/butler/pkg/domain/types"
)

// ContextBundle is the result of one context-gathering request. It is
// request-local: created per gather call, consumed by the formatter, and
// never persisted.
type ContextBundle struct {
	Knowledge []*KnowledgeRecord
	Memories  []*MemoryNote
	Files     []*FileRecord
	Emails    []*EmailRecord
	Calendar  []*CalendarEvent
	Activity  []*ActivityRecord
	Related   []*ScoredChunk // long-term vector store hits

	ProjectContext *Project

	// Confidence is a coverage heuristic in [0, 100], not a calibrated
	// probability.
	Confidence float64

	// Sources names the adapters that contributed at least one result,
	// in the fixed section order of the formatter.
	Sources []types.Source
}

// NewContextBundle returns an empty bundle with zero confidence
func NewContextBundle() *ContextBundle {
	return &ContextBundle{}
}

// HasSource reports whether the named adapter contributed any result
func (x *ContextBundle) HasSource(src types.Source) bool {
	for _, s := range x.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// Empty reports whether no source contributed anything
func (x *ContextBundle) Empty() bool {
	return len(x.Sources) == 0 && x.ProjectContext == nil
}
