package worker

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/luminapay/railsync/internal/core/ports/services"
)

// Processor pulls due sync jobs on a fixed interval. It owns no scheduling
// state of its own; every tick asks the queue for whatever is due right now,
// so multiple instances can run side by side.
type Processor struct {
	queue    portssvc.SyncQueueSvcFacade
	interval time.Duration
	logger   *slog.Logger
}

// NewProcessor creates a new queue processor.
func NewProcessor(queue portssvc.SyncQueueSvcFacade, interval time.Duration, logger *slog.Logger) *Processor {
	return &Processor{
		queue:    queue,
		interval: interval,
		logger:   logger.With(slog.String("component", "sync_worker")),
	}
}

// Run processes the queue until ctx is cancelled. It blocks; callers start it
// in its own goroutine.
func (p *Processor) Run(ctx context.Context) {
	p.logger.Info("Sync worker started", slog.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Sync worker stopping")
			return
		case <-ticker.C:
			if err := p.queue.ProcessQueue(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				p.logger.Error("Queue processing pass failed", slog.String("error", err.Error()))
			}
		}
	}
}
