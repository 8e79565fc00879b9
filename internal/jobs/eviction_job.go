package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Evictor stops tenant sessions that stayed unwatched for longer than ttl.
type Evictor interface {
	EvictIdle(ttl time.Duration) int
}

// EvictionJob manages the scheduled eviction of idle tenant sessions.
type EvictionJob struct {
	evictor  Evictor
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewEvictionJob creates a job that evicts sessions idle for longer than ttl.
func NewEvictionJob(evictor Evictor, schedule string, ttl time.Duration, logger *slog.Logger) *EvictionJob {
	return &EvictionJob{
		evictor:  evictor,
		ttl:      ttl,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "eviction_job"),
	}
}

// Run performs one eviction pass.
func (j *EvictionJob) Run() {
	if n := j.evictor.EvictIdle(j.ttl); n > 0 {
		j.logger.InfoContext(context.Background(), "Idle sessions evicted", "count", n)
	}
}

// Start begins the eviction job.
func (j *EvictionJob) Start() error {
	if _, err := j.cron.AddJob(j.schedule, j); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Eviction job started", "schedule", j.schedule, "idle_ttl", j.ttl)
	return nil
}

// Stop stops the eviction job.
func (j *EvictionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Eviction job stopped")
}
