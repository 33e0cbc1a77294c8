package butler_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/domain/types"
	"github.com/secmon-lab/butler/pkg/repository/memory"
	"github.com/secmon-lab/butler/pkg/service/butler"
)

func putChunk(t *testing.T, repo *memory.Memory, userID, content string, embedding []float32) *model.VectorChunk {
	t.Helper()
	chunk, err := repo.Chunk().Put(context.Background(), model.NewVectorChunk(
		content, embedding,
		model.ChunkMetadata{UserID: userID, Type: types.ChunkTypeKnowledge},
	))
	gt.NoError(t, err).Required()
	return chunk
}

func TestVectorSearch(t *testing.T) {
	const userID = "u1"

	t.Run("returns ranked results above threshold", func(t *testing.T) {
		repo := memory.New()
		putChunk(t, repo, userID, "budget approval workflow", fullVec(1, 0))
		putChunk(t, repo, userID, "vacation policy", fullVec(0, 1))
		putChunk(t, repo, userID, "budget escalation path", fullVec(0.9, 0.3))

		svc := butler.New(repo, &stubEmbedder{vec: fullVec(1, 0)})

		results := svc.VectorSearch(context.Background(), userID, "budget rules", 0, 0)
		gt.Array(t, results).Length(2).Required()
		gt.Value(t, results[0].Chunk.Content).Equal("budget approval workflow")
		gt.Value(t, results[1].Chunk.Content).Equal("budget escalation path")
		gt.Bool(t, results[0].Score > results[1].Score).True()
	})

	t.Run("respects limit", func(t *testing.T) {
		repo := memory.New()
		putChunk(t, repo, userID, "a", fullVec(1, 0))
		putChunk(t, repo, userID, "b", fullVec(1, 0.1))
		putChunk(t, repo, userID, "c", fullVec(1, 0.2))

		svc := butler.New(repo, &stubEmbedder{vec: fullVec(1, 0)})

		gt.Array(t, svc.VectorSearch(context.Background(), userID, "anything", 2, 0)).Length(2)
	})

	t.Run("no embedding falls back to keywords with zero scores", func(t *testing.T) {
		repo := memory.New()
		putChunk(t, repo, userID, "budget approval workflow", nil)
		putChunk(t, repo, userID, "vacation policy", nil)

		svc := butler.New(repo, &stubEmbedder{vec: nil})

		results := svc.VectorSearch(context.Background(), userID, "budget rules", 0, 0)
		gt.Array(t, results).Length(1).Required()
		gt.Value(t, results[0].Chunk.Content).Equal("budget approval workflow")
		gt.Value(t, results[0].Score).Equal(0.0)
	})

	t.Run("keyword-only chunk does not poison semantic ranking", func(t *testing.T) {
		// Chunks without an embedding are legal stored data. They must be
		// skipped by the vector path, not degrade the whole set to the
		// zero-score keyword fallback.
		repo := memory.New()
		putChunk(t, repo, userID, "budget approval workflow", fullVec(1, 0))
		putChunk(t, repo, userID, "keyword only note about budget", nil)

		svc := butler.New(repo, &stubEmbedder{vec: fullVec(1, 0)})

		results := svc.VectorSearch(context.Background(), userID, "budget rules", 0, 0)
		gt.Array(t, results).Length(1).Required()
		gt.Value(t, results[0].Chunk.Content).Equal("budget approval workflow")
		gt.Bool(t, results[0].Score > 0.5).True()
	})

	t.Run("blank inputs return nothing", func(t *testing.T) {
		svc := butler.New(memory.New(), &stubEmbedder{})
		gt.Array(t, svc.VectorSearch(context.Background(), "", "query", 0, 0)).Length(0)
		gt.Array(t, svc.VectorSearch(context.Background(), userID, "  ", 0, 0)).Length(0)
	})

	t.Run("other users' chunks are invisible", func(t *testing.T) {
		repo := memory.New()
		putChunk(t, repo, "someone-else", "budget approval workflow", fullVec(1, 0))

		svc := butler.New(repo, &stubEmbedder{vec: fullVec(1, 0)})

		gt.Array(t, svc.VectorSearch(context.Background(), userID, "budget", 0, 0)).Length(0)
	})

	t.Run("malformed chunks are skipped on reload", func(t *testing.T) {
		repo := memory.New()
		putChunk(t, repo, userID, "budget approval workflow", fullVec(1, 0))

		// Wrong dimension: must be dropped during the cache reload, not
		// poison the whole set
		_, err := repo.Chunk().Put(context.Background(), &model.VectorChunk{
			ID:        model.NewChunkID(),
			Content:   "budget chunk with bad vector",
			Embedding: []float32{1, 2, 3},
			Metadata:  model.ChunkMetadata{UserID: userID},
		})
		gt.NoError(t, err).Required()

		svc := butler.New(repo, &stubEmbedder{vec: fullVec(1, 0)})

		results := svc.VectorSearch(context.Background(), userID, "budget", 0, 0)
		gt.Array(t, results).Length(1).Required()
		gt.Value(t, results[0].Chunk.Content).Equal("budget approval workflow")
	})
}

func TestCacheLifecycle(t *testing.T) {
	const userID = "u1"

	t.Run("warm then serve from cache until invalidated", func(t *testing.T) {
		repo := memory.New()
		putChunk(t, repo, userID, "budget approval workflow", fullVec(1, 0))

		svc := butler.New(repo, &stubEmbedder{vec: fullVec(1, 0)})
		gt.NoError(t, svc.WarmCache(context.Background(), userID)).Required()

		// Written after the warm, so invisible until the cache is dropped
		putChunk(t, repo, userID, "budget escalation path", fullVec(1, 0))

		gt.Array(t, svc.VectorSearch(context.Background(), userID, "budget", 0, 0)).Length(1)

		svc.InvalidateCache(userID)
		gt.Array(t, svc.VectorSearch(context.Background(), userID, "budget", 0, 0)).Length(2)
	})

	t.Run("invalidate all clears every user", func(t *testing.T) {
		repo := memory.New()
		putChunk(t, repo, "u1", "budget one", fullVec(1, 0))
		putChunk(t, repo, "u2", "budget two", fullVec(1, 0))

		svc := butler.New(repo, &stubEmbedder{vec: fullVec(1, 0)})
		gt.NoError(t, svc.WarmCache(context.Background(), "u1")).Required()
		gt.NoError(t, svc.WarmCache(context.Background(), "u2")).Required()

		putChunk(t, repo, "u1", "budget three", fullVec(1, 0))
		putChunk(t, repo, "u2", "budget four", fullVec(1, 0))

		svc.InvalidateCache("")

		gt.Array(t, svc.VectorSearch(context.Background(), "u1", "budget", 0, 0)).Length(2)
		gt.Array(t, svc.VectorSearch(context.Background(), "u2", "budget", 0, 0)).Length(2)
	})
}
