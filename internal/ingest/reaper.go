package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/talus-io/talus/internal/metrics"
	"github.com/talus-io/talus/pkg/lifecycle"
)

// StaleReaper reverts abandoned batch leases.
type StaleReaper interface {
	ReapStale(ctx context.Context) (int, error)
}

// Reaper periodically sweeps batches whose worker died mid-processing,
// reverting them to pending so another slot can retry. Safe to run on every
// node: the sweep is a single conditional update.
type Reaper struct {
	store    StaleReaper
	logger   *slog.Logger
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
}

// NewReaper creates a Reaper with a cron schedule expression (standard five
// field format) and a per-sweep timeout.
func NewReaper(store StaleReaper, logger *slog.Logger, schedule string, timeout time.Duration) *Reaper {
	return &Reaper{
		store:    store,
		logger:   logger.With("system", "ingest-reaper"),
		cron:     cron.New(),
		schedule: schedule,
		timeout:  timeout,
	}
}

// Start registers the sweep on the cron scheduler and ties it to the
// lifecycle coordinator.
func (r *Reaper) Start(lc *lifecycle.Coordinator) error {
	if _, err := r.cron.AddFunc(r.schedule, r.sweep); err != nil {
		return err
	}

	r.logger.Info("starting ingest reaper", "schedule", r.schedule)

	lc.OnStartup(func() {
		r.cron.Start()
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-r.cron.Stop().Done()
		r.logger.Info("ingest reaper stopped")
	})

	return nil
}

func (r *Reaper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	reaped, err := r.store.ReapStale(ctx)
	if err != nil {
		r.logger.Error("stale batch sweep failed", "error", err)
		return
	}
	if reaped > 0 {
		metrics.StaleBatchesReaped.Add(float64(reaped))
	}
}
