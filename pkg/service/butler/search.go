package butler

import (
	"context"
	"strings"

	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

// VectorSearch is the standalone RAG entry point: ranked semantic results
// for a query without the full multi-source fan-out. When no query
// embedding can be obtained (provider failure, timeout, or no client) it
// falls back to keyword matching over the cached chunk set instead of
// raising. A repository failure yields an empty result, never an error.
func (s *Service) VectorSearch(ctx context.Context, userID, query string, limit int, threshold float64) []*model.ScoredChunk {
	if userID == "" || strings.TrimSpace(query) == "" {
		return nil
	}
	if limit <= 0 {
		limit = s.cfg.VectorLimit
	}
	if threshold <= 0 {
		threshold = s.cfg.SimilarityThreshold
	}

	chunks, err := s.chunksForUser(ctx, userID)
	if err != nil {
		logging.From(ctx).Warn("vector search unavailable, chunk reload failed",
			"userID", userID,
			"error", err.Error(),
		)
		return nil
	}

	queryVector := s.embedder.Embed(ctx, query)
	if queryVector == nil {
		return keywordFallback(chunks, ExtractKeywords(query), limit)
	}

	scored, err := model.RankChunks(chunks, queryVector, userID, threshold, limit)
	if err != nil {
		// Dimension mismatch between the query vector and stored chunks
		// means an embedding model version skew. Log loudly but still
		// degrade to keywords rather than failing the caller.
		logging.From(ctx).Error("vector ranking failed",
			"userID", userID,
			"error", err.Error(),
		)
		return keywordFallback(chunks, ExtractKeywords(query), limit)
	}

	return scored
}

// keywordFallback returns chunks whose content or title contains any of
// the keywords, preserving stored order. Scores are zero: without an
// embedding there is no similarity to report.
func keywordFallback(chunks []*model.VectorChunk, keywords []string, limit int) []*model.ScoredChunk {
	if len(keywords) == 0 {
		return nil
	}

	var result []*model.ScoredChunk
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Content)
		title := strings.ToLower(chunk.Metadata.Title)

		for _, kw := range keywords {
			if strings.Contains(content, kw) || strings.Contains(title, kw) {
				result = append(result, &model.ScoredChunk{Chunk: chunk})
				break
			}
		}
		if len(result) >= limit {
			break
		}
	}

	return result
}
