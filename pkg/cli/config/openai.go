package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/urfave/cli/v3"
)

// OpenAI holds configuration for the OpenAI embedding client
type OpenAI struct {
	apiKey         string `masq:"secret"`
	embeddingModel string
}

// Flags returns CLI flags for OpenAI configuration
func (o *OpenAI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key for embedding generation (keyword-only retrieval when empty)",
			Sources:     cli.EnvVars("BUTLER_OPENAI_API_KEY", "OPENAI_API_KEY"),
			Destination: &o.apiKey,
		},
		&cli.StringFlag{
			Name:        "openai-embedding-model",
			Usage:       "OpenAI embedding model",
			Value:       "text-embedding-3-small",
			Sources:     cli.EnvVars("BUTLER_OPENAI_EMBEDDING_MODEL"),
			Destination: &o.embeddingModel,
		},
	}
}

// LogValue implements slog.LogValuer so the configuration can be logged
// without exposing the API key.
func (o OpenAI) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("configured", o.apiKey != ""),
		slog.String("embedding_model", o.embeddingModel),
	)
}

// Configure creates a new OpenAI LLM client from the configured flags.
// Returns nil if apiKey is not configured (semantic retrieval will be
// disabled and keyword matching is used instead).
func (o *OpenAI) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if o.apiKey == "" {
		return nil, nil
	}

	client, err := openai.New(ctx, o.apiKey, openai.WithEmbeddingModel(o.embeddingModel))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create OpenAI client")
	}

	return client, nil
}
