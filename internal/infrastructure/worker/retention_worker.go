package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pruner deletes stored files under a prefix older than a cutoff
type Pruner interface {
	PruneOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error)
}

// RetentionConfig controls how long uploaded spreadsheets are kept
type RetentionConfig struct {
	Interval  time.Duration
	MaxAge    time.Duration
	Prefixes  []string
	RunOnBoot bool
}

// RetentionWorker periodically removes old uploads from storage
type RetentionWorker struct {
	config RetentionConfig
	pruner Pruner
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	removed int
}

// NewRetentionWorker creates a new retention worker
func NewRetentionWorker(config RetentionConfig, pruner Pruner, logger *zap.Logger) *RetentionWorker {
	return &RetentionWorker{
		config: config,
		pruner: pruner,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the worker name for identification
func (w *RetentionWorker) Name() string {
	return "RetentionWorker"
}

// Start begins the sweep loop
func (w *RetentionWorker) Start(ctx context.Context) error {
	if w.config.Interval <= 0 || w.config.MaxAge <= 0 {
		return fmt.Errorf("retention interval and max age must be positive")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done != nil {
		return fmt.Errorf("retention worker already running")
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	w.logger.Info("RetentionWorker started",
		zap.Duration("interval", w.config.Interval),
		zap.Duration("max_age", w.config.MaxAge),
		zap.Strings("prefixes", w.config.Prefixes))

	go w.loop(ctx, w.done)
	return nil
}

// Stop cancels the loop and waits for the current sweep to finish
func (w *RetentionWorker) Stop() error {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if done == nil {
		return nil
	}
	cancel()
	<-done

	w.logger.Info("RetentionWorker stopped", zap.Int("files_removed", w.Removed()))
	return nil
}

// Removed returns how many files have been pruned since creation
func (w *RetentionWorker) Removed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.removed
}

func (w *RetentionWorker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	if w.config.RunOnBoot {
		w.Sweep(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep prunes every configured prefix once
func (w *RetentionWorker) Sweep(ctx context.Context) {
	cutoff := w.now().Add(-w.config.MaxAge)

	for _, prefix := range w.config.Prefixes {
		n, err := w.pruner.PruneOlderThan(ctx, prefix, cutoff)
		if n > 0 {
			w.mu.Lock()
			w.removed += n
			w.mu.Unlock()
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("Retention sweep failed",
				zap.String("prefix", prefix),
				zap.Error(err))
			continue
		}
		if n > 0 {
			w.logger.Info("Old uploads removed",
				zap.String("prefix", prefix),
				zap.Int("count", n),
				zap.Time("cutoff", cutoff))
		}
	}
}
