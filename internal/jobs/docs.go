// Package jobs runs the periodic maintenance of the tenant sessions on
// github.com/robfig/cron/v3 schedules with seconds precision.
//
// # Jobs
//
//   - ResyncJob re-reads the full order and reservation sets of every live
//     session, healing drift left by change events that never arrived.
//   - EvictionJob stops sessions that have had no viewers for longer than the
//     idle TTL.
//
// JobManager starts and stops both:
//
//	jm := jobs.NewJobManager(hub, jobs.Schedules{
//		Resync:  "*/30 * * * * *",
//		Evict:   "0 * * * * *",
//		IdleTTL: 10 * time.Minute,
//	}, logger)
//	if err := jm.StartAll(); err != nil {
//		return err
//	}
//	defer jm.StopAll()
//
// A failing resync pass is logged and retried on the next tick. If one job
// cannot be scheduled, StartAll stops the ones already running.
package jobs
