package embedding_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/service/embedding"
)

type mockLLMClient struct {
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (m *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	return nil, nil
}

func (m *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if m.generateEmbeddingFn != nil {
		return m.generateEmbeddingFn(ctx, dimension, input)
	}
	vec := make([]float64, dimension)
	for i := range vec {
		vec[i] = 0.1
	}
	return [][]float64{vec}, nil
}

func TestEmbed(t *testing.T) {
	t.Run("converts provider vector to float32", func(t *testing.T) {
		svc := embedding.New(&mockLLMClient{})

		vec := svc.Embed(context.Background(), "hello")
		gt.Array(t, vec).Length(model.EmbeddingDimension).Required()
		gt.Value(t, vec[0]).Equal(float32(0.1))
	})

	t.Run("requests the expected dimension", func(t *testing.T) {
		var gotDimension int
		svc := embedding.New(&mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				gotDimension = dimension
				return [][]float64{make([]float64, dimension)}, nil
			},
		})

		svc.Embed(context.Background(), "hello")
		gt.Value(t, gotDimension).Equal(model.EmbeddingDimension)
	})

	t.Run("nil client returns nil", func(t *testing.T) {
		svc := embedding.New(nil)
		gt.Value(t, svc.Embed(context.Background(), "hello")).Nil()
	})

	t.Run("empty text returns nil without a provider call", func(t *testing.T) {
		called := false
		svc := embedding.New(&mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				called = true
				return nil, nil
			},
		})

		gt.Value(t, svc.Embed(context.Background(), "")).Nil()
		gt.Bool(t, called).False()
	})

	t.Run("provider error returns nil", func(t *testing.T) {
		svc := embedding.New(&mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return nil, goerr.New("rate limited")
			},
		})

		gt.Value(t, svc.Embed(context.Background(), "hello")).Nil()
	})

	t.Run("empty provider result returns nil", func(t *testing.T) {
		svc := embedding.New(&mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return [][]float64{}, nil
			},
		})

		gt.Value(t, svc.Embed(context.Background(), "hello")).Nil()
	})

	t.Run("long input is truncated before the request", func(t *testing.T) {
		var gotInput string
		svc := embedding.New(&mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				gotInput = input[0]
				return [][]float64{make([]float64, dimension)}, nil
			},
		})

		svc.Embed(context.Background(), strings.Repeat("x", 10000))
		gt.Value(t, len(gotInput)).Equal(8000)
	})
}
