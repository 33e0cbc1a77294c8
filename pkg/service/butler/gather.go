package butler

import (
	"context"
	"strings"

	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/domain/types"
	"github.com/secmon-lab/butler/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// GatherInput identifies one context-gathering request
type GatherInput struct {
	UserID         string
	Message        string
	ConversationID string
	ProjectID      string
}

// sectionOrder fixes the order of the Sources set and of the formatted
// output. Stable ordering across calls with identical input is required
// for deterministic prompt caching upstream.
var sectionOrder = []types.Source{
	types.SourceProject,
	types.SourceKnowledgeBase,
	types.SourceMemory,
	types.SourceFiles,
	types.SourceEmails,
	types.SourceCalendar,
	types.SourceActivity,
	types.SourceVectorStore,
}

// Gather runs the full retrieval pipeline: classify, extract, embed, fan
// out to every source adapter under one global deadline, and reduce the
// results into a bundle. It never returns an error; any failure shows up
// as missing context, not as a broken chat response.
func (s *Service) Gather(ctx context.Context, in GatherInput) *model.ContextBundle {
	logger := logging.From(ctx)
	bundle := model.NewContextBundle()

	message := strings.TrimSpace(in.Message)
	if in.UserID == "" || message == "" {
		return bundle
	}

	intent := ClassifyIntent(message)
	entities := ExtractEntities(message)

	if !ShouldGatherContext(message, intent, entities, in.ProjectID) {
		logger.Debug("skipping context gathering",
			"intent", intent.String(),
			"userID", in.UserID,
		)
		return bundle
	}

	// Keyword extraction and embedding have no ordering dependency; the
	// fan-out starts once both have resolved. The embedding may resolve
	// to nil, which degrades the batch to keyword-only matching.
	var keywords []string
	var queryVector []float32

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		keywords = ExtractKeywords(message)
		return nil
	})
	eg.Go(func() error {
		queryVector = s.embedder.Embed(egCtx, message)
		return nil
	})
	// Neither stage returns an error by contract
	_ = eg.Wait()

	q := sourceQuery{
		userID:         in.UserID,
		conversationID: in.ConversationID,
		projectID:      in.ProjectID,
		terms:          append(append([]string{}, keywords...), entities...),
		embedding:      queryVector,
	}

	counts := s.fanOut(ctx, q, bundle)

	for _, src := range sectionOrder {
		if counts[src] > 0 {
			bundle.Sources = append(bundle.Sources, src)
		}
	}

	bundle.Confidence = Confidence(SourceCounts{
		Knowledge: counts[types.SourceKnowledgeBase],
		Memory:    counts[types.SourceMemory],
		Files:     counts[types.SourceFiles],
		Emails:    counts[types.SourceEmails],
		Calendar:  counts[types.SourceCalendar],
	})

	logger.Info("context gathered",
		"userID", in.UserID,
		"intent", intent.String(),
		"keywords", len(keywords),
		"entities", len(entities),
		"sources", len(bundle.Sources),
		"confidence", bundle.Confidence,
	)

	return bundle
}

// fanOut issues every applicable source adapter call concurrently and
// races the whole batch against the gather deadline. Losing the race is a
// defined partial-success outcome: whatever completed is merged, the rest
// count as empty. Late results land in the buffered channel and are
// discarded with it, never merged after the deadline.
func (s *Service) fanOut(ctx context.Context, q sourceQuery, bundle *model.ContextBundle) map[types.Source]int {
	gatherCtx, cancel := context.WithTimeout(ctx, s.cfg.GatherTimeout)
	defer cancel()

	fetchers := s.sourceFetchers(q)

	// Buffered to the batch size so an abandoned adapter can still
	// complete its send and terminate
	results := make(chan sourceResult, len(fetchers))
	for _, f := range fetchers {
		fetch := f
		go func() {
			// A panicking adapter reports empty instead of taking the
			// process down with it
			defer func() {
				if r := recover(); r != nil {
					logging.From(ctx).Error("source adapter panicked",
						"source", fetch.source.String(),
						"panic", r,
					)
					results <- sourceResult{source: fetch.source}
				}
			}()
			results <- fetch.run(gatherCtx)
		}()
	}

	counts := make(map[types.Source]int, len(fetchers))
	for range fetchers {
		select {
		case res := <-results:
			if res.count > 0 {
				res.apply(bundle)
				counts[res.source] = res.count
			}
		case <-gatherCtx.Done():
			logging.From(ctx).Warn("context gathering hit the global deadline, returning partial results",
				"userID", q.userID,
				"completed", len(counts),
				"total", len(fetchers),
			)
			return counts
		}
	}

	return counts
}
