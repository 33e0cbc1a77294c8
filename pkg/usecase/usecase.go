package usecase

import (
	"github.com/secmon-lab/butler/pkg/domain/interfaces"
	"github.com/secmon-lab/butler/pkg/service/butler"
	"github.com/secmon-lab/butler/pkg/service/embedding"
)

// UseCases bundles the application use cases handed to controllers
type UseCases struct {
	repo    interfaces.Repository
	Context *ContextUseCase
}

// Option is a functional option for UseCases configuration
type Option func(*options)

type options struct {
	butlerConfig butler.Config
}

// WithButlerConfig overrides the retrieval tuning of the context use case
func WithButlerConfig(cfg butler.Config) Option {
	return func(o *options) {
		o.butlerConfig = cfg
	}
}

// New wires the use cases over the repository and embedding client
func New(repo interfaces.Repository, embedder embedding.Service, opts ...Option) *UseCases {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	svc := butler.New(repo, embedder, butler.WithConfig(o.butlerConfig))

	return &UseCases{
		repo:    repo,
		Context: NewContextUseCase(svc),
	}
}
