package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/butler/pkg/utils/logging"
)

// CacheWarmer is the slice of the retrieval service the worker needs
type CacheWarmer interface {
	WarmCache(ctx context.Context, userID string) error
}

// CacheWarmWorker periodically reloads the vector cache for a fixed set of
// users so their first request after a TTL expiry does not pay the reload
// cost.
//
// Architecture assumptions:
// - Single server instance (the cache is in-process)
// - For future horizontal scaling, each instance warms its own cache
type CacheWarmWorker struct {
	svc      CacheWarmer
	userIDs  []string
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewCacheWarmWorker creates a new worker warming the cache for the given users
func NewCacheWarmWorker(svc CacheWarmer, userIDs []string, interval time.Duration) *CacheWarmWorker {
	return &CacheWarmWorker{
		svc:      svc,
		userIDs:  userIDs,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background warm loop
// - Initial warm and periodic refresh both run in a background goroutine
// - Does not block server startup
func (w *CacheWarmWorker) Start(ctx context.Context) error {
	logging.Default().Info("Cache warm worker starting",
		"users", len(w.userIDs),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *CacheWarmWorker) Stop() {
	logging.Default().Info("Cache warm worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Cache warm worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *CacheWarmWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.warm(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.warm(ctx)

		case <-w.stopCh:
			logging.Default().Info("Cache warm worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Cache warm worker context cancelled")
			return
		}
	}
}

// warm performs a single warm cycle. A failing user is logged and skipped;
// the others still get warmed.
func (w *CacheWarmWorker) warm(ctx context.Context) {
	startTime := time.Now()

	for _, userID := range w.userIDs {
		if err := w.svc.WarmCache(ctx, userID); err != nil {
			logging.Default().Error("Cache warm failed (will retry next interval)",
				"user_id", userID,
				"error", err.Error())
		}
	}

	logging.Default().Info("Cache warm cycle completed",
		"users", len(w.userIDs),
		"duration", time.Since(startTime).String())
}
