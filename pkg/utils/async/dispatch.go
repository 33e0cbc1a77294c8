package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/butler/pkg/utils/logging"
)

// Dispatch runs handler in a background goroutine, detached from the
// caller's context lifetime. Callers are typically HTTP handlers whose
// request context is cancelled the moment the response is written; a cache
// warm-up started there must keep running, so the handler gets a fresh
// background context that carries only the caller's logger forward.
// Errors and panics are logged, never propagated.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
