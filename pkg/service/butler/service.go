package butler

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/service/embedding"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

// Config holds the retrieval tuning knobs. Zero values are replaced by
// defaults, so an empty Config is valid.
type Config struct {
	// GatherTimeout is the global deadline of one fan-out batch
	GatherTimeout time.Duration
	// CacheTTL is how long a per-user chunk set stays fresh
	CacheTTL time.Duration
	// SourceLimit caps results per source adapter. The cap bounds total
	// fan-out latency and prompt size, not result usefulness.
	SourceLimit int
	// VectorLimit caps results of the long-term vector store path
	VectorLimit int
	// SimilarityThreshold drops vector candidates below this cosine score
	SimilarityThreshold float64
}

const (
	defaultGatherTimeout       = 10 * time.Second
	defaultCacheTTL            = 30 * time.Minute
	defaultSourceLimit         = 3
	defaultVectorLimit         = 5
	defaultSimilarityThreshold = 0.7
)

// normalize fills unset fields with defaults
func (c Config) normalize() Config {
	if c.GatherTimeout <= 0 {
		c.GatherTimeout = defaultGatherTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = defaultCacheTTL
	}
	if c.SourceLimit <= 0 {
		c.SourceLimit = defaultSourceLimit
	}
	if c.VectorLimit <= 0 {
		c.VectorLimit = defaultVectorLimit
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = defaultSimilarityThreshold
	}
	return c
}

// Service is the context-retrieval service ("the Butler"): one instance
// per process, constructed at startup and passed to callers by injection.
// It owns the only process-wide mutable state, the vector cache.
type Service struct {
	repo     interfaces.Repository
	embedder embedding.Service
	cache    *VectorCache
	cfg      Config
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithConfig overrides the default retrieval tuning
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg.normalize()
	}
}

// New creates a Butler service over the given repository and embedding
// client
func New(repo interfaces.Repository, embedder embedding.Service, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		embedder: embedder,
		cfg:      Config{}.normalize(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cache = NewVectorCache(s.cfg.CacheTTL)

	return s
}

// InvalidateCache drops cached chunk sets: for one user when userID is
// non-empty, for everyone otherwise
func (s *Service) InvalidateCache(userID string) {
	if userID == "" {
		s.cache.InvalidateAll()
		return
	}
	s.cache.Invalidate(userID)
}

// WarmCache preloads the chunk set of a user, typically at session start
func (s *Service) WarmCache(ctx context.Context, userID string) error {
	if _, err := s.chunksForUser(ctx, userID); err != nil {
		return goerr.Wrap(err, "failed to warm vector cache", goerr.V("userID", userID))
	}
	return nil
}

// chunksForUser serves the user's chunk set from the cache, reloading the
// full set from the durable store on miss or staleness. The reload is not
// incremental: it builds a fresh set and replaces the cache entry in one
// assignment. Malformed chunks are skipped and logged; the reload still
// succeeds with the remainder.
func (s *Service) chunksForUser(ctx context.Context, userID string) ([]*model.VectorChunk, error) {
	if chunks, ok := s.cache.Get(userID); ok {
		return chunks, nil
	}

	loaded, err := s.repo.Chunk().ListByUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to reload chunks", goerr.V("userID", userID))
	}

	logger := logging.From(ctx)
	valid := make([]*model.VectorChunk, 0, len(loaded))
	for _, chunk := range loaded {
		if chunk.Content == "" {
			logger.Warn("skipping chunk without content", "chunkID", chunk.ID)
			continue
		}
		if len(chunk.Embedding) > 0 && len(chunk.Embedding) != model.EmbeddingDimension {
			logger.Warn("skipping chunk with unexpected embedding dimension",
				"chunkID", chunk.ID,
				"dimension", len(chunk.Embedding),
			)
			continue
		}
		valid = append(valid, chunk)
	}

	s.cache.Put(userID, valid)

	return valid, nil
}
