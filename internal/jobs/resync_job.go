package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const resyncTimeout = 20 * time.Second

// Resyncer reconciles every live tenant session with the entity store.
type Resyncer interface {
	ResyncAll(ctx context.Context) error
}

// ResyncJob manages the scheduled full reconciliation of tenant sessions.
type ResyncJob struct {
	resyncer Resyncer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewResyncJob creates a job that runs ResyncAll on schedule.
func NewResyncJob(resyncer Resyncer, schedule string, logger *slog.Logger) *ResyncJob {
	return &ResyncJob{
		resyncer: resyncer,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "resync_job"),
	}
}

// Run performs one reconciliation pass.
func (j *ResyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
	defer cancel()

	if err := j.resyncer.ResyncAll(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Resync job failed", "error", err)
	}
}

// Start begins the resync job.
func (j *ResyncJob) Start() error {
	if _, err := j.cron.AddJob(j.schedule, j); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Resync job started", "schedule", j.schedule)
	return nil
}

// Stop stops the resync job and waits for a running pass to finish.
func (j *ResyncJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Resync job stopped")
}
