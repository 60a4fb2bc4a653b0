package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/scheduler"
)

type WatchCmd struct {
	Once bool `help:"Run the maintenance job once and exit."`
}

func (c *WatchCmd) Run(ctx *Context) error {
	sched := scheduler.New(ctx.Backup, ctx.Config.CleanupDays, time.Local)
	if c.Once {
		if err := sched.RunMaintenance(ctx.ctx()); err != nil {
			return err
		}
		ctx.println("Maintenance complete.")
		return nil
	}

	lock, err := scheduler.AcquireLock(ctx.Config.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release lock", "path", lock.Path(), "error", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(ctx.ctx(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := sched.Schedule(runCtx, ctx.Config.BackupSchedule); err != nil {
		return err
	}
	if spec, err := cron.ParseStandard(ctx.Config.BackupSchedule); err == nil {
		ctx.printf("Watching %s (schedule %q, next run %s). Press Ctrl+C to stop.\n",
			ctx.Store.Location(), ctx.Config.BackupSchedule, spec.Next(ctx.now()).Format(time.RFC1123))
	}

	sched.Run(runCtx)
	if runCtx.Err() == context.Canceled {
		ctx.println("Stopped.")
	}
	return nil
}
