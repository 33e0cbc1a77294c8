package butler_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/domain/types"
	"github.com/secmon-lab/butler/pkg/service/butler"
)

func sampleBundle() *model.ContextBundle {
	createdAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	bundle := model.NewContextBundle()
	bundle.Knowledge = []*model.KnowledgeRecord{
		{Title: "Budget policy", Content: "Quarterly budgets are reviewed by finance."},
	}
	bundle.Memories = []*model.MemoryNote{
		{Content: "User prefers morning meetings."},
	}
	bundle.Files = []*model.FileRecord{
		{Name: "q3-budget.xlsx", Summary: "Q3 numbers", ModifiedAt: createdAt},
	}
	bundle.Emails = []*model.EmailRecord{
		{From: "cfo@example.com", Subject: "Budget review", ReceivedAt: createdAt},
	}
	bundle.Calendar = []*model.CalendarEvent{
		{Title: "Budget sync", StartsAt: createdAt, Location: "Room 4"},
	}
	bundle.Sources = []types.Source{
		types.SourceKnowledgeBase,
		types.SourceMemory,
		types.SourceFiles,
		types.SourceEmails,
		types.SourceCalendar,
	}
	bundle.Confidence = 31.25
	return bundle
}

func TestFormat(t *testing.T) {
	t.Run("nil and empty bundles render nothing", func(t *testing.T) {
		gt.Value(t, butler.Format(nil)).Equal("")
		gt.Value(t, butler.Format(model.NewContextBundle())).Equal("")
	})

	t.Run("identical bundles produce identical output", func(t *testing.T) {
		first := butler.Format(sampleBundle())
		second := butler.Format(sampleBundle())
		gt.Value(t, first).Equal(second)
	})

	t.Run("sections appear in fixed order", func(t *testing.T) {
		out := butler.Format(sampleBundle())

		sections := []string{
			"## Knowledge base",
			"## Memories",
			"## Files",
			"## Emails",
			"## Calendar",
		}
		last := -1
		for _, section := range sections {
			idx := strings.Index(out, section)
			gt.Bool(t, idx >= 0).True()
			gt.Bool(t, idx > last).True()
			last = idx
		}
	})

	t.Run("email entries name subject and sender", func(t *testing.T) {
		out := butler.Format(sampleBundle())
		gt.Bool(t, strings.Contains(out, "- Budget review from cfo@example.com (2025-03-10)")).True()
	})

	t.Run("footer names confidence and sources", func(t *testing.T) {
		out := butler.Format(sampleBundle())
		gt.Bool(t, strings.Contains(out,
			"Context confidence: 31% (sources: knowledge_base, memory, files, emails, calendar)")).True()
	})

	t.Run("long content is previewed", func(t *testing.T) {
		bundle := model.NewContextBundle()
		bundle.Knowledge = []*model.KnowledgeRecord{
			{Title: "Long", Content: strings.Repeat("word ", 100)},
		}
		bundle.Sources = []types.Source{types.SourceKnowledgeBase}

		out := butler.Format(bundle)
		gt.Bool(t, strings.Contains(out, "...")).True()
	})

	t.Run("whitespace in entries is collapsed", func(t *testing.T) {
		bundle := model.NewContextBundle()
		bundle.Knowledge = []*model.KnowledgeRecord{
			{Title: "Spacing", Content: "line one\n\n  line two"},
		}
		bundle.Sources = []types.Source{types.SourceKnowledgeBase}

		out := butler.Format(bundle)
		gt.Bool(t, strings.Contains(out, "- Spacing: line one line two")).True()
	})

	t.Run("project section renders name and status", func(t *testing.T) {
		bundle := model.NewContextBundle()
		bundle.ProjectContext = &model.Project{Name: "Migration", Status: "active"}
		bundle.Sources = []types.Source{types.SourceProject}

		out := butler.Format(bundle)
		gt.Bool(t, strings.Contains(out, "## Project")).True()
		gt.Bool(t, strings.Contains(out, "- Migration [active]")).True()
	})
}
