// Package scheduler runs periodic maintenance (snapshots and cleanup) for metaflow watch.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/metaflow/internal/backup"
	"github.com/julianstephens/metaflow/internal/logger"
)

// Maintainer is the part of the backup manager the scheduler drives.
type Maintainer interface {
	WriteSnapshot(ctx context.Context) (string, error)
	CleanupOlderThan(ctx context.Context, days int) (backup.CleanupResult, error)
}

// cronLogger routes cron's internal logging through the application logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

type Scheduler struct {
	cron        *cron.Cron
	maint       Maintainer
	cleanupDays int
}

// New builds a scheduler. cleanupDays of zero disables the cleanup step.
func New(maint Maintainer, cleanupDays int, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	l := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(l),
			cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l)),
		),
		maint:       maint,
		cleanupDays: cleanupDays,
	}
}

// RunMaintenance writes a snapshot and then prunes old data. The snapshot comes
// first so a cleanup can always be undone.
func (s *Scheduler) RunMaintenance(ctx context.Context) error {
	start := time.Now()
	path, err := s.maint.WriteSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	var result backup.CleanupResult
	if s.cleanupDays > 0 {
		result, err = s.maint.CleanupOlderThan(ctx, s.cleanupDays)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	logger.Info("Maintenance run complete",
		"snapshot", path,
		"journalRemoved", result.JournalRemoved,
		"completionsRemoved", result.CompletionsRemoved,
		"took", time.Since(start))
	return nil
}

// Schedule registers the maintenance job on a standard five-field cron spec.
func (s *Scheduler) Schedule(ctx context.Context, spec string) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.RunMaintenance(ctx); err != nil {
			logger.Error("Scheduled maintenance failed", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return id, nil
}

// Next returns when the given job fires next. It is the zero time until Run starts the loop.
func (s *Scheduler) Next(id cron.EntryID) time.Time {
	return s.cron.Entry(id).Next
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Run starts the cron loop and blocks until ctx is cancelled, then waits for
// any running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
}
