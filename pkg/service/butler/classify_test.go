package butler_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/types"
	"github.com/secmon-lab/butler/pkg/service/butler"
)

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		message string
		want    types.Intent
	}{
		{"Do you remember what we discussed about the launch?", types.IntentRecall},
		{"What did I say about the pricing?", types.IntentRecall},
		{"Schedule a meeting with the design team", types.IntentScheduling},
		{"When is my next appointment?", types.IntentScheduling},
		{"Did anyone email me about the contract?", types.IntentCommunication},
		{"Open the budget spreadsheet", types.IntentFiles},
		{"What's the status of the migration project?", types.IntentProjectManagement},
		{"Find the notes from last week", types.IntentSearch},
		{"Show me my last invoice", types.IntentSearch},
		{"Nice weather today", types.IntentGeneral},
	}

	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			gt.Value(t, butler.ClassifyIntent(tc.message)).Equal(tc.want)
		})
	}
}

func TestClassifyIntentTieBreak(t *testing.T) {
	// "remember" (recall) and "meeting" (scheduling) both match;
	// declaration order makes recall win
	got := butler.ClassifyIntent("Remember to set up the meeting")
	gt.Value(t, got).Equal(types.IntentRecall)
}

func TestShouldGatherContext(t *testing.T) {
	t.Run("general knowledge question skips gathering", func(t *testing.T) {
		message := "What is photosynthesis?"
		intent := butler.ClassifyIntent(message)
		entities := butler.ExtractEntities(message)
		gt.Value(t, intent).Equal(types.IntentGeneral)
		gt.Bool(t, butler.ShouldGatherContext(message, intent, entities, "")).False()
	})

	t.Run("personal phrasing gathers even for search-like message", func(t *testing.T) {
		message := "Show me my last invoice"
		intent := butler.ClassifyIntent(message)
		entities := butler.ExtractEntities(message)
		gt.Bool(t, butler.ShouldGatherContext(message, intent, entities, "")).True()
	})

	t.Run("explicit project scope always gathers", func(t *testing.T) {
		gt.Bool(t, butler.ShouldGatherContext("What is photosynthesis?", types.IntentGeneral, nil, "proj-1")).True()
	})

	t.Run("actionable intent gathers", func(t *testing.T) {
		gt.Bool(t, butler.ShouldGatherContext("schedule a sync", types.IntentScheduling, nil, "")).True()
	})

	t.Run("detected entities gather", func(t *testing.T) {
		message := "Anything new about report.pdf?"
		entities := butler.ExtractEntities(message)
		gt.Bool(t, len(entities) > 0).True()
		gt.Bool(t, butler.ShouldGatherContext(message, types.IntentGeneral, entities, "")).True()
	})

	t.Run("defaults to gathering when no rule matches", func(t *testing.T) {
		gt.Bool(t, butler.ShouldGatherContext("hello there", types.IntentGeneral, nil, "")).True()
	})
}
