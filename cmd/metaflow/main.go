package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/metaflow/internal/cli"
	"github.com/julianstephens/metaflow/internal/config"
	"github.com/julianstephens/metaflow/internal/constants"
	"github.com/julianstephens/metaflow/internal/errors"
	"github.com/julianstephens/metaflow/internal/logger"
)

type CLI struct {
	Version   kong.VersionFlag
	ConfigDir string `help:"Directory holding config.json, logs and backups." type:"path" default:"${config_dir}"`
	Store     string `help:"Storage backend (memory, file, sqlite, postgres). Overrides the config file." enum:",memory,file,sqlite,postgres" default:""`
	Path      string `help:"Database file, JSON file or PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use METAFLOW_DB_CONNECTION or the OS keyring instead."`
	Debug     bool   `help:"Log debug output to stderr."`

	Habit   cli.HabitCmd   `cmd:"" help:"Track daily habits."`
	Goal    cli.GoalCmd    `cmd:"" help:"Manage annual, quarterly and monthly goals."`
	Column  cli.ColumnCmd  `cmd:"" help:"Manage kanban columns."`
	Task    cli.TaskCmd    `cmd:"" help:"Manage kanban tasks."`
	Note    cli.NoteCmd    `cmd:"" help:"Manage notes."`
	Journal cli.JournalCmd `cmd:"" help:"Write and browse journal entries."`
	Data    cli.DataCmd    `cmd:"" help:"Export, import, back up and maintain stored data."`
	Prefs   cli.PrefsCmd   `cmd:"" help:"Show and change preferences."`
	Keyring cli.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Watch   cli.WatchCmd   `cmd:"" help:"Run scheduled snapshots and cleanup in the foreground."`
	Tui     cli.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
}

func newParser(args *CLI, options ...kong.Option) (*kong.Kong, error) {
	return kong.New(args, append([]kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Local-first habits, goals, kanban, notes and journal"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"export_version": constants.ExportVersion,
			"config_dir":     constants.DefaultConfigDir,
		},
	}, options...)...)
}

func main() {
	var args CLI
	parser, err := newParser(&args)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	errors.Fatal(run(context.Background(), kctx, &args, os.Stdout))
}

func run(ctx context.Context, kctx *kong.Context, args *CLI, out io.Writer) error {
	cfg, err := config.Load(args.ConfigDir)
	if err != nil {
		return err
	}
	if err := cfg.Apply(config.Overrides{Store: args.Store, Path: args.Path, Debug: args.Debug}); err != nil {
		return err
	}

	command := kctx.Command()
	if err := logger.Init(logger.Config{
		Debug:   cfg.Debug,
		DataDir: cfg.Dir,
		Quiet:   command == "tui",
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// keyring commands must work before a PostgreSQL store is reachable
	if strings.HasPrefix(command, "keyring") {
		return kctx.Run(&cli.Context{Config: cfg, Ctx: ctx, Out: out})
	}

	store, err := cli.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close store", "error", err)
		}
	}()

	appCtx := cli.NewContext(store, cfg)
	appCtx.Ctx = ctx
	appCtx.Out = out
	return kctx.Run(appCtx)
}
