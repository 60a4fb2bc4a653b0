package cli

import (
	"github.com/julianstephens/metaflow/internal/logger"
	"github.com/julianstephens/metaflow/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()
	return tui.Run(ctx.ctx(), ctx.Services)
}

// PerformAutomaticBackup writes a snapshot if one is due per the backup preferences.
// Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	prefs := c.Services.Preferences.Get(c.ctx())
	path, err := c.Backup.AutoSnapshot(c.ctx(), prefs.Backup)
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if path != "" {
		logger.Debug("Automatic backup written", "path", path)
	}
}
