package butler

import (
	"regexp"
	"strings"

	"github.com/secmon-lab/butler/pkg/domain/types"
)

// intentPhrases maps fixed phrase sets to intents. Declaration order is the
// tie-breaker: the first matching category wins.
var intentPhrases = []struct {
	intent  types.Intent
	phrases []string
}{
	{types.IntentRecall, []string{
		"remember", "recall", "what did", "did i", "last time",
		"previously", "you said", "we discussed", "we talked",
	}},
	{types.IntentScheduling, []string{
		"schedule", "calendar", "meeting", "appointment", "remind me",
		"what time", "when is", "availability",
	}},
	{types.IntentCommunication, []string{
		"email", "inbox", "message from", "reply", "wrote to", "sent me",
	}},
	{types.IntentFiles, []string{
		"file", "document", "spreadsheet", "folder", "upload", "attachment",
	}},
	{types.IntentProjectManagement, []string{
		"project", "task", "deadline", "milestone", "progress", "status of",
	}},
	{types.IntentSearch, []string{
		"find", "search", "look up", "locate", "show me",
	}},
}

// ClassifyIntent assigns an intent to the message by keyword lookup over
// fixed phrase sets
func ClassifyIntent(message string) types.Intent {
	lowered := strings.ToLower(message)
	for _, entry := range intentPhrases {
		for _, phrase := range entry.phrases {
			if strings.Contains(lowered, phrase) {
				return entry.intent
			}
		}
	}
	return types.IntentGeneral
}

var (
	personalMarkerRe = regexp.MustCompile(`\b(my|mine|our|i've|i'm)\b` +
		`|\b(last|latest|recent|recently|yesterday|today|tomorrow|tonight|earlier)\b` +
		`|\bshow me\b|\bdid i\b|\bhave i\b|\bremind me\b`)

	generalQuestionRe = regexp.MustCompile(`^(what is|what are|what's|who is|who was|who were` +
		`|how does|how do|how to|why is|why do|why does|explain|define|tell me about)\b`)
)

// gatherSignal carries the inputs of one gather-or-skip decision
type gatherSignal struct {
	message  string // lowercased
	intent   types.Intent
	entities []string
	project  bool
}

// GatherRule is one entry of the ordered decision table. The first rule
// whose Match returns true decides the verdict.
type GatherRule struct {
	Name    string
	Match   func(s gatherSignal) bool
	Verdict bool
}

// gatherRules is evaluated in order. The table skews toward gathering:
// skipping context a user actually needs is worse than wasted latency, so
// only clearly generic questions take the fast path.
var gatherRules = []GatherRule{
	{
		Name:    "explicit_project_scope",
		Match:   func(s gatherSignal) bool { return s.project },
		Verdict: true,
	},
	{
		Name:    "actionable_intent",
		Match:   func(s gatherSignal) bool { return s.intent.Actionable() },
		Verdict: true,
	},
	{
		Name:    "entities_detected",
		Match:   func(s gatherSignal) bool { return len(s.entities) > 0 },
		Verdict: true,
	},
	{
		Name:    "personal_or_temporal_marker",
		Match:   func(s gatherSignal) bool { return personalMarkerRe.MatchString(s.message) },
		Verdict: true,
	},
	{
		Name:    "general_knowledge_question",
		Match:   func(s gatherSignal) bool { return generalQuestionRe.MatchString(s.message) },
		Verdict: false,
	},
}

// ShouldGatherContext decides whether context retrieval is worth the
// latency for this message. An empty projectID means no explicit project
// scope. Defaults to true when no rule matches.
func ShouldGatherContext(message string, intent types.Intent, entities []string, projectID string) bool {
	s := gatherSignal{
		message:  strings.ToLower(strings.TrimSpace(message)),
		intent:   intent,
		entities: entities,
		project:  projectID != "",
	}

	for _, rule := range gatherRules {
		if rule.Match(s) {
			return rule.Verdict
		}
	}

	return true
}
