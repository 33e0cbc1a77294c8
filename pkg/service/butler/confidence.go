package butler

// maxExpectedSources is the saturating upper bound of the coverage
// heuristic: with this many results across the counted sources the
// confidence reaches 100 and stays there.
const maxExpectedSources = 16

// SourceCounts holds the per-source result counts feeding the confidence
// score. Project context, recent activity and vector hits are deliberately
// excluded: they are ambient rather than evidence of a specific match.
type SourceCounts struct {
	Knowledge int
	Memory    int
	Files     int
	Emails    int
	Calendar  int
}

// Confidence reduces the counts to a coverage score in [0, 100]. It is a
// heuristic for "how much supporting material was found", not a calibrated
// probability.
func Confidence(counts SourceCounts) float64 {
	total := counts.Knowledge + counts.Memory + counts.Files + counts.Emails + counts.Calendar

	ratio := float64(total) / float64(maxExpectedSources)
	if ratio > 1 {
		ratio = 1
	}

	return ratio * 100
}
