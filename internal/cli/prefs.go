package cli

import (
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/metaflow/internal/models"
)

type PrefsCmd struct {
	Show   PrefsShowCmd   `cmd:"" help:"Show preferences and theme." default:"1"`
	Theme  PrefsThemeCmd  `cmd:"" help:"Show or set the theme."`
	Backup PrefsBackupCmd `cmd:"" help:"Configure automatic backups."`
	Notify PrefsNotifyCmd `cmd:"" help:"Choose which reminders are enabled."`
}

type PrefsShowCmd struct{}

type prefsView struct {
	Theme       models.Theme       `yaml:"theme"`
	Preferences models.Preferences `yaml:",inline"`
}

func (c *PrefsShowCmd) Run(ctx *Context) error {
	prefs := ctx.Services.Preferences.Get(ctx.ctx())
	out, err := yaml.Marshal(prefsView{
		Theme:       ctx.Services.Preferences.Theme(ctx.ctx()),
		Preferences: prefs,
	})
	if err != nil {
		return err
	}
	ctx.printf("%s", out)
	return nil
}

type PrefsThemeCmd struct {
	Theme string `arg:"" optional:"" help:"system, light or dark." enum:",system,light,dark" default:""`
}

func (c *PrefsThemeCmd) Run(ctx *Context) error {
	if c.Theme == "" {
		ctx.println(ctx.Services.Preferences.Theme(ctx.ctx()))
		return nil
	}
	if err := ctx.Services.Preferences.SetTheme(ctx.ctx(), models.Theme(c.Theme)); err != nil {
		return err
	}
	ctx.printf("Theme set to %s\n", c.Theme)
	return nil
}

type PrefsBackupCmd struct {
	Auto      *bool   `help:"Enable automatic backups." negatable:""`
	Frequency *string `help:"daily, weekly or monthly."`
}

func (c *PrefsBackupCmd) Run(ctx *Context) error {
	prefs := ctx.Services.Preferences.Get(ctx.ctx())
	if c.Auto != nil {
		prefs.Backup.Auto = *c.Auto
	}
	if c.Frequency != nil {
		prefs.Backup.Frequency = models.BackupFrequency(*c.Frequency)
	}
	if err := ctx.Services.Preferences.Save(ctx.ctx(), prefs); err != nil {
		return err
	}
	ctx.printf("Automatic backups: %t (%s)\n", prefs.Backup.Auto, prefs.Backup.Frequency)
	return nil
}

type PrefsNotifyCmd struct {
	Habits  *bool `help:"Habit reminders." negatable:""`
	Journal *bool `help:"Journal reminders." negatable:""`
	Goals   *bool `help:"Goal deadline reminders." negatable:""`
}

func (c *PrefsNotifyCmd) Run(ctx *Context) error {
	prefs := ctx.Services.Preferences.Get(ctx.ctx())
	n := &prefs.Notifications
	for _, f := range []struct {
		flag *bool
		dst  *bool
	}{{c.Habits, &n.Habits}, {c.Journal, &n.Journal}, {c.Goals, &n.Goals}} {
		if f.flag != nil {
			*f.dst = *f.flag
		}
	}
	if err := ctx.Services.Preferences.Save(ctx.ctx(), prefs); err != nil {
		return err
	}
	ctx.printf("Reminders: habits=%t journal=%t goals=%t\n", n.Habits, n.Journal, n.Goals)
	return nil
}
