// Package cleanup provides background worker
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/observability/logging"
)

// SessionReaper closes editor sessions idle for longer than maxIdle and reports
// how many were closed.
type SessionReaper interface {
	CloseIdle(maxIdle time.Duration) int
}

// Worker handles background cache and session cleanup
type Worker struct {
	cache    interfaces.FragmentCache
	sessions SessionReaper
	config   *Config
	logger   *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration. sessions may
// be nil.
func NewWorker(cache interfaces.FragmentCache, sessions SessionReaper, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:    cache,
		sessions: sessions,
		config:   config,
		logger:   logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.System().Info("Cleanup worker started",
		"interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single cleanup pass and returns the number of items removed.
func (w *Worker) RunOnce() int {
	start := time.Now()

	if w.config.VerboseReporting {
		w.logger.Debug().Debug("Fragment cache before cleanup", "summary", w.cache.Summary())
	}

	purged := w.cache.PurgeExpiredChunks()
	closed := 0
	if w.sessions != nil && w.config.SessionIdleTimeout > 0 {
		closed = w.sessions.CloseIdle(w.config.SessionIdleTimeout)
	}

	duration := time.Since(start)
	if purged+closed > 0 {
		w.logger.System().Info("Cleanup finished",
			"fragmentsPurged", purged, "sessionsClosed", closed, "duration", duration)
	} else if w.config.VerboseReporting {
		w.logger.System().Info("Cleanup completed - nothing expired", "duration", duration)
	}
	return purged + closed
}
