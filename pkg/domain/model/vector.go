package model

import (
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
)

// ErrDimensionMismatch indicates two vectors of different dimensions were
// compared. Unlike every other failure in the retrieval path this one
// propagates: it signals an embedding model version mismatch that must be
// fixed upstream, not masked.
var ErrDimensionMismatch = goerr.New("embedding dimension mismatch")

// CosineSimilarity computes the cosine of the angle between two vectors.
// The result is in [-1, 1]. Both vectors must have the same dimension.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, goerr.Wrap(ErrDimensionMismatch, "cannot compare vectors",
			goerr.V("lenA", len(a)),
			goerr.V("lenB", len(b)),
		)
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// ScoredChunk pairs a chunk with its similarity to a query vector
type ScoredChunk struct {
	Chunk *VectorChunk
	Score float64
}

// RankChunks scores every candidate owned by userID against the query
// vector, drops candidates below threshold, and returns up to limit results
// sorted by descending similarity. The sort is stable so equal scores keep
// candidate insertion order. Candidates without an embedding are keyword-only
// and are skipped; candidates carrying a vector of a mismatched dimension
// return an error rather than being skipped, because that signals model
// version skew.
func RankChunks(candidates []*VectorChunk, query []float32, userID string, threshold float64, limit int) ([]*ScoredChunk, error) {
	scored := make([]*ScoredChunk, 0, len(candidates))
	for _, chunk := range candidates {
		if userID != "" && chunk.Metadata.UserID != userID {
			continue
		}
		if len(chunk.Embedding) == 0 {
			continue
		}

		score, err := CosineSimilarity(query, chunk.Embedding)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to score chunk", goerr.V("chunkID", chunk.ID))
		}
		if score < threshold {
			continue
		}

		scored = append(scored, &ScoredChunk{Chunk: chunk, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	return scored, nil
}
