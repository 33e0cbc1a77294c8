package usecase

import (
	"context"

	"github.com/secmon-lab/butler/pkg/domain/model"
	"github.com/secmon-lab/butler/pkg/service/butler"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

// ContextUseCase is the caller-facing surface of the retrieval subsystem.
// It is fail-open end to end: absence of context must never block or break
// the chat response, so none of its methods return an error.
type ContextUseCase struct {
	svc *butler.Service
}

// NewContextUseCase creates a ContextUseCase over the butler service
func NewContextUseCase(svc *butler.Service) *ContextUseCase {
	return &ContextUseCase{svc: svc}
}

// GatherOption narrows the scope of one gather call
type GatherOption func(*butler.GatherInput)

// WithConversation narrows recent activity to one conversation
func WithConversation(conversationID string) GatherOption {
	return func(in *butler.GatherInput) {
		in.ConversationID = conversationID
	}
}

// WithProject supplies an explicit project scope. Context gathering is
// never skipped under a project scope.
func WithProject(projectID string) GatherOption {
	return func(in *butler.GatherInput) {
		in.ProjectID = projectID
	}
}

// GatherRelevantContext retrieves context relevant to the user message.
// It returns within the gather deadline plus small overhead and never
// panics through to the caller: an unexpected failure yields an empty
// bundle with zero confidence so the chat layer proceeds with a plain
// prompt.
func (uc *ContextUseCase) GatherRelevantContext(ctx context.Context, userMessage, userID string, opts ...GatherOption) (bundle *model.ContextBundle) {
	defer func() {
		if r := recover(); r != nil {
			logging.From(ctx).Error("context gathering panicked, returning empty bundle",
				"panic", r,
				"userID", userID,
			)
			bundle = model.NewContextBundle()
		}
	}()

	in := butler.GatherInput{
		UserID:  userID,
		Message: userMessage,
	}
	for _, opt := range opts {
		opt(&in)
	}

	return uc.svc.Gather(ctx, in)
}

// FormatContextForAI renders the bundle into the deterministic textual
// block embedded in the LLM prompt
func (uc *ContextUseCase) FormatContextForAI(bundle *model.ContextBundle) string {
	return butler.Format(bundle)
}

// VectorSearch returns ranked semantic results for a query without the
// full multi-source fan-out
func (uc *ContextUseCase) VectorSearch(ctx context.Context, userID, query string, limit int, threshold float64) []*model.ScoredChunk {
	return uc.svc.VectorSearch(ctx, userID, query, limit, threshold)
}

// InvalidateCache drops cached chunk sets, for one user or for all
func (uc *ContextUseCase) InvalidateCache(userID string) {
	uc.svc.InvalidateCache(userID)
}

// WarmCache preloads the chunk set of a user
func (uc *ContextUseCase) WarmCache(ctx context.Context, userID string) error {
	return uc.svc.WarmCache(ctx, userID)
}
