package ingest

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talus-io/talus/internal/batches"
	"github.com/talus-io/talus/pkg/lifecycle"
)

// BatchQueue is the claim surface the pool polls. Claim returns (nil, nil)
// when no batch is pending.
type BatchQueue interface {
	Claim(ctx context.Context, lease time.Duration) (*batches.Batch, error)
}

// Pool runs a small fixed set of worker slots, each claiming one batch at a
// time. Exclusive claims guarantee no two slots ever process the same
// batch; within a slot, processing is strictly sequential.
type Pool struct {
	queue    BatchQueue
	pipeline *Pipeline
	logger   *slog.Logger
	workers  int
	interval time.Duration
	lease    time.Duration
	done     chan struct{}
}

// NewPool creates a worker pool with the given slot count, claim polling
// interval, and claim lease duration.
func NewPool(
	queue BatchQueue,
	pipeline *Pipeline,
	logger *slog.Logger,
	workers int,
	interval time.Duration,
	lease time.Duration,
) *Pool {
	return &Pool{
		queue:    queue,
		pipeline: pipeline,
		logger:   logger.With("system", "ingest-pool"),
		workers:  workers,
		interval: interval,
		lease:    lease,
		done:     make(chan struct{}),
	}
}

// Start registers the pool on the lifecycle coordinator: worker slots spin
// up on startup and drain on shutdown.
func (p *Pool) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting ingest pool", "workers", p.workers, "interval", p.interval)

	lc.OnStartup(func() {
		go p.run(lc.Context())
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-p.done
		p.logger.Info("ingest pool drained")
	})

	return nil
}

func (p *Pool) run(ctx context.Context) {
	defer close(p.done)

	g, ctx := errgroup.WithContext(ctx)
	for slot := range p.workers {
		g.Go(func() error {
			p.worker(ctx, slot)
			return nil
		})
	}
	g.Wait()
}

func (p *Pool) worker(ctx context.Context, slot int) {
	logger := p.logger.With("slot", slot)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		b, err := p.queue.Claim(ctx, p.lease)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("claim failed", "error", err)
		}
		if b != nil {
			if _, err := p.pipeline.Process(ctx, b); err != nil {
				logger.Error("batch processing error", "id", b.ID, "error", err)
			}
			// Drain pending batches before going back to sleep.
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
