package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is how often a running Sweeper resets elapsed tasks.
const DefaultSweepInterval = 5 * time.Minute

// Sweeper runs Service.Sweep once on Start and then on a fixed interval.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	log      *slog.Logger
	onSweep  func(SweepSummary)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper returns a stopped sweeper. onSweep, if set, is called after
// every pass that reset at least one task.
func NewSweeper(svc *Service, interval time.Duration, onSweep func(SweepSummary)) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{svc: svc, interval: interval, log: svc.log, onSweep: onSweep}
}

func (w *Sweeper) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	w.sweep(ctx)

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.sweep(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the ticker and waits for a running pass to finish.
func (w *Sweeper) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
}

func (w *Sweeper) sweep(ctx context.Context) {
	sum, err := w.svc.Sweep(ctx)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		w.log.Debug("sweep skipped: sync in progress")
		return
	case errors.Is(err, ErrSessionEnded):
		return
	case err != nil:
		w.log.Warn("sweep failed", "error", err)
		return
	}
	if len(sum.Reset) > 0 && w.onSweep != nil {
		w.onSweep(sum)
	}
}
