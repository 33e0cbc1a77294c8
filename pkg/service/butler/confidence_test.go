package butler_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/service/butler"
)

func TestConfidence(t *testing.T) {
	t.Run("no results means zero", func(t *testing.T) {
		gt.Value(t, butler.Confidence(butler.SourceCounts{})).Equal(0.0)
	})

	t.Run("partial coverage scales linearly", func(t *testing.T) {
		counts := butler.SourceCounts{Knowledge: 2, Memory: 1, Emails: 1}
		gt.Value(t, butler.Confidence(counts)).Equal(25.0)
	})

	t.Run("saturates at 100", func(t *testing.T) {
		counts := butler.SourceCounts{Knowledge: 10, Memory: 10, Files: 10}
		gt.Value(t, butler.Confidence(counts)).Equal(100.0)
	})

	t.Run("exactly at the bound is 100", func(t *testing.T) {
		counts := butler.SourceCounts{Knowledge: 16}
		gt.Value(t, butler.Confidence(counts)).Equal(100.0)
	})
}
