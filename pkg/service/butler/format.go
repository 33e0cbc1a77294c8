package butler

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/butler/pkg/domain/model"
)

// previewLength bounds each formatted entry so the assembled context block
// stays within a predictable share of the prompt budget
const previewLength = 90

// Format renders the bundle into the textual context block handed to the
// LLM prompt. It is pure and deterministic: identical bundles produce
// byte-identical output, with sections in the fixed order of sectionOrder.
func Format(bundle *model.ContextBundle) string {
	if bundle == nil || bundle.Empty() {
		return ""
	}

	var sb strings.Builder

	if p := bundle.ProjectContext; p != nil {
		sb.WriteString("## Project\n")
		fmt.Fprintf(&sb, "- %s", p.Name)
		if p.Status != "" {
			fmt.Fprintf(&sb, " [%s]", p.Status)
		}
		if p.Description != "" {
			fmt.Fprintf(&sb, ": %s", preview(p.Description))
		}
		sb.WriteString("\n\n")
	}

	if len(bundle.Knowledge) > 0 {
		sb.WriteString("## Knowledge base\n")
		for _, r := range bundle.Knowledge {
			fmt.Fprintf(&sb, "- %s: %s\n", r.Title, preview(r.Content))
		}
		sb.WriteString("\n")
	}

	if len(bundle.Memories) > 0 {
		sb.WriteString("## Memories\n")
		for _, n := range bundle.Memories {
			fmt.Fprintf(&sb, "- %s\n", preview(n.Content))
		}
		sb.WriteString("\n")
	}

	if len(bundle.Files) > 0 {
		sb.WriteString("## Files\n")
		for _, f := range bundle.Files {
			fmt.Fprintf(&sb, "- %s (modified %s)", f.Name, f.ModifiedAt.Format("2006-01-02"))
			if f.Summary != "" {
				fmt.Fprintf(&sb, ": %s", preview(f.Summary))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(bundle.Emails) > 0 {
		sb.WriteString("## Emails\n")
		for _, e := range bundle.Emails {
			fmt.Fprintf(&sb, "- %s from %s (%s)", e.Subject, e.From, e.ReceivedAt.Format("2006-01-02"))
			if e.Snippet != "" {
				fmt.Fprintf(&sb, ": %s", preview(e.Snippet))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(bundle.Calendar) > 0 {
		sb.WriteString("## Calendar\n")
		for _, ev := range bundle.Calendar {
			fmt.Fprintf(&sb, "- %s: %s", ev.StartsAt.Format("2006-01-02 15:04"), ev.Title)
			if ev.Location != "" {
				fmt.Fprintf(&sb, " @ %s", ev.Location)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(bundle.Activity) > 0 {
		sb.WriteString("## Recent activity\n")
		for _, a := range bundle.Activity {
			fmt.Fprintf(&sb, "- [%s] %s\n", a.Role, preview(a.Content))
		}
		sb.WriteString("\n")
	}

	if len(bundle.Related) > 0 {
		sb.WriteString("## Related notes\n")
		for _, sc := range bundle.Related {
			fmt.Fprintf(&sb, "- (%.2f) %s\n", sc.Score, preview(sc.Chunk.Content))
		}
		sb.WriteString("\n")
	}

	names := make([]string, len(bundle.Sources))
	for i, src := range bundle.Sources {
		names[i] = src.String()
	}
	fmt.Fprintf(&sb, "Context confidence: %.0f%% (sources: %s)\n",
		bundle.Confidence, strings.Join(names, ", "))

	return sb.String()
}

// preview collapses whitespace and truncates to previewLength characters
func preview(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if len([]rune(collapsed)) <= previewLength {
		return collapsed
	}
	return model.TruncateText(collapsed, previewLength) + "..."
}
