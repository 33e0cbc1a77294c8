package butler

import (
	"context"
	"time"

	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/domain/types"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

// sourceQuery carries the per-request hints every source adapter receives
type sourceQuery struct {
	userID         string
	conversationID string
	projectID      string
	terms          []string // keywords plus extracted entities
	embedding      []float32
}

// sourceResult is one adapter's contribution. apply merges the results
// into the bundle; it runs on the collector goroutine only, so adapters
// never touch the bundle concurrently.
type sourceResult struct {
	source types.Source
	count  int
	apply  func(b *model.ContextBundle)
}

// sourceFetcher is one adapter of the fan-out batch. run never returns an
// error: adapter failures are logged and reported as an empty result, so
// one failing source cannot zero out its siblings.
type sourceFetcher struct {
	source types.Source
	run    func(ctx context.Context) sourceResult
}

// sourceFetchers assembles the fan-out batch for one request. The vector
// store path joins only when a query embedding is available, and the
// project path only under an explicit project scope.
func (s *Service) sourceFetchers(q sourceQuery) []sourceFetcher {
	fetchers := []sourceFetcher{
		s.knowledgeFetcher(q),
		s.memoryFetcher(q),
		s.fileFetcher(q),
		s.emailFetcher(q),
		s.calendarFetcher(q),
		s.activityFetcher(q),
	}

	if q.projectID != "" {
		fetchers = append(fetchers, s.projectFetcher(q))
	}
	if len(q.embedding) > 0 {
		fetchers = append(fetchers, s.vectorFetcher(q))
	}

	return fetchers
}

// emptyResult logs an adapter failure and degrades it to no results
func emptyResult(ctx context.Context, source types.Source, err error) sourceResult {
	if err != nil {
		logging.From(ctx).Warn("source adapter failed",
			"source", source.String(),
			"error", err.Error(),
		)
	}
	return sourceResult{source: source}
}

func (s *Service) knowledgeFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceKnowledgeBase,
		run: func(ctx context.Context) sourceResult {
			records, err := s.repo.Knowledge().Search(ctx, q.userID, q.terms, s.cfg.SourceLimit)
			if err != nil {
				return emptyResult(ctx, types.SourceKnowledgeBase, err)
			}
			return sourceResult{
				source: types.SourceKnowledgeBase,
				count:  len(records),
				apply:  func(b *model.ContextBundle) { b.Knowledge = records },
			}
		},
	}
}

func (s *Service) memoryFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceMemory,
		run: func(ctx context.Context) sourceResult {
			// Semantic search when an embedding is available, keyword
			// matching otherwise
			var notes []*model.MemoryNote
			var err error
			if len(q.embedding) > 0 {
				notes, err = s.repo.Memory().FindByEmbedding(ctx, q.userID, q.embedding, s.cfg.SourceLimit)
			} else {
				notes, err = s.repo.Memory().Search(ctx, q.userID, q.terms, s.cfg.SourceLimit)
			}
			if err != nil {
				return emptyResult(ctx, types.SourceMemory, err)
			}
			return sourceResult{
				source: types.SourceMemory,
				count:  len(notes),
				apply:  func(b *model.ContextBundle) { b.Memories = notes },
			}
		},
	}
}

func (s *Service) fileFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceFiles,
		run: func(ctx context.Context) sourceResult {
			records, err := s.repo.File().Search(ctx, q.userID, q.terms, s.cfg.SourceLimit)
			if err != nil {
				return emptyResult(ctx, types.SourceFiles, err)
			}
			return sourceResult{
				source: types.SourceFiles,
				count:  len(records),
				apply:  func(b *model.ContextBundle) { b.Files = records },
			}
		},
	}
}

func (s *Service) emailFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceEmails,
		run: func(ctx context.Context) sourceResult {
			records, err := s.repo.Email().Search(ctx, q.userID, q.terms, s.cfg.SourceLimit)
			if err != nil {
				return emptyResult(ctx, types.SourceEmails, err)
			}
			return sourceResult{
				source: types.SourceEmails,
				count:  len(records),
				apply:  func(b *model.ContextBundle) { b.Emails = records },
			}
		},
	}
}

func (s *Service) calendarFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceCalendar,
		run: func(ctx context.Context) sourceResult {
			// Look a day back so "what was my last meeting" still hits
			from := time.Now().UTC().Add(-24 * time.Hour)
			events, err := s.repo.Calendar().Search(ctx, q.userID, q.terms, from, s.cfg.SourceLimit)
			if err != nil {
				return emptyResult(ctx, types.SourceCalendar, err)
			}
			return sourceResult{
				source: types.SourceCalendar,
				count:  len(events),
				apply:  func(b *model.ContextBundle) { b.Calendar = events },
			}
		},
	}
}

func (s *Service) activityFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceActivity,
		run: func(ctx context.Context) sourceResult {
			records, err := s.repo.Activity().Recent(ctx, q.userID, q.conversationID, s.cfg.SourceLimit)
			if err != nil {
				return emptyResult(ctx, types.SourceActivity, err)
			}
			return sourceResult{
				source: types.SourceActivity,
				count:  len(records),
				apply:  func(b *model.ContextBundle) { b.Activity = records },
			}
		},
	}
}

func (s *Service) projectFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceProject,
		run: func(ctx context.Context) sourceResult {
			project, err := s.repo.Project().Get(ctx, q.userID, model.ProjectID(q.projectID))
			if err != nil {
				return emptyResult(ctx, types.SourceProject, err)
			}
			return sourceResult{
				source: types.SourceProject,
				count:  1,
				apply:  func(b *model.ContextBundle) { b.ProjectContext = project },
			}
		},
	}
}

func (s *Service) vectorFetcher(q sourceQuery) sourceFetcher {
	return sourceFetcher{
		source: types.SourceVectorStore,
		run: func(ctx context.Context) sourceResult {
			chunks, err := s.chunksForUser(ctx, q.userID)
			if err != nil {
				return emptyResult(ctx, types.SourceVectorStore, err)
			}

			scored, err := model.RankChunks(chunks, q.embedding, q.userID, s.cfg.SimilarityThreshold, s.cfg.VectorLimit)
			if err != nil {
				return emptyResult(ctx, types.SourceVectorStore, err)
			}

			return sourceResult{
				source: types.SourceVectorStore,
				count:  len(scored),
				apply:  func(b *model.ContextBundle) { b.Related = scored },
			}
		},
	}
}
