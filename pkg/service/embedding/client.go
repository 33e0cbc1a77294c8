package embedding

import (
	"context"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

// maxInputLength is the provider input limit; longer text is truncated
// before the request rather than rejected.
const maxInputLength = 8000

// defaultTimeout bounds one embedding call. A slow provider degrades the
// caller to keyword-only matching instead of stalling the whole gather.
const defaultTimeout = 3 * time.Second

// Service converts text into a fixed-length embedding vector.
// Embed is fail-open: it returns nil on any provider or transport failure,
// never an error. Absence of an embedding degrades retrieval to keyword
// matching; it must not abort the overall request.
type Service interface {
	Embed(ctx context.Context, text string) []float32
}

type client struct {
	llmClient gollem.LLMClient
	timeout   time.Duration
}

// Option is a functional option for client configuration
type Option func(*client)

// WithTimeout overrides the per-call embedding timeout
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// New creates an embedding Service backed by the given LLM client. A nil
// LLM client is allowed: Embed always returns nil and retrieval runs in
// keyword-only mode.
func New(llmClient gollem.LLMClient, opts ...Option) Service {
	c := &client{
		llmClient: llmClient,
		timeout:   defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *client) Embed(ctx context.Context, text string) []float32 {
	if c.llmClient == nil || text == "" {
		return nil
	}

	text = model.TruncateText(text, maxInputLength)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	embeddings, err := c.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		logging.From(ctx).Warn("embedding generation failed, falling back to keyword matching",
			"error", err.Error(),
		)
		return nil
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		logging.From(ctx).Warn("embedding provider returned no vector")
		return nil
	}

	// Convert float64 to float32
	result := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		result[i] = float32(v)
	}

	return result
}
