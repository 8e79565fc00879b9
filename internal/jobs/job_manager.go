package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// Sessions is what the jobs maintain: the lifecycle hub.
type Sessions interface {
	Resyncer
	Evictor
}

// Schedules configures the job timing.
type Schedules struct {
	Resync  string
	Evict   string
	IdleTTL time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	resyncJob   *ResyncJob
	evictionJob *EvictionJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(sessions Sessions, schedules Schedules, logger *slog.Logger) *JobManager {
	return &JobManager{
		resyncJob:   NewResyncJob(sessions, schedules.Resync, logger),
		evictionJob: NewEvictionJob(sessions, schedules.Evict, schedules.IdleTTL, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.resyncJob.Start(); err != nil {
		return fmt.Errorf("failed to start resync job: %w", err)
	}

	if err := jm.evictionJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.resyncJob.Stop()
		return fmt.Errorf("failed to start eviction job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.evictionJob.Stop()
	jm.resyncJob.Stop()
}
