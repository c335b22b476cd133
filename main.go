package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/taskwise/internal/commands"
	"github.com/colonyops/taskwise/internal/core/config"
	"github.com/colonyops/taskwise/internal/core/logging"
	"github.com/colonyops/taskwise/internal/core/match"
	"github.com/colonyops/taskwise/internal/core/oplock"
	"github.com/colonyops/taskwise/internal/data/db"
	"github.com/colonyops/taskwise/internal/data/stores"
	"github.com/colonyops/taskwise/internal/engine"
	"github.com/colonyops/taskwise/internal/enrich"
	"github.com/colonyops/taskwise/internal/taskwise"
	"github.com/colonyops/taskwise/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
		twApp     = &taskwise.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "taskwise",
		Usage:     "Natural-language task tracker",
		UsageText: "taskwise [global options] command [command options]",
		Description: `Taskwise turns plain-language messages into task operations: adding
(single or batch), completing, deleting, rescheduling, reprioritizing,
and querying, with natural due dates, priorities, categories, and
recurring tasks.

Run 'taskwise do "<message>"' for the full natural-language flow, or use
the direct subcommands (add, complete, delete, ls, stats).`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKWISE_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/taskwise.log)",
				Sources:     cli.EnvVars("TASKWISE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKWISE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKWISE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Always log to a file; use explicit path or default to
			// <data-dir>/taskwise.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			// The hook surfaces the command_id/operation values that
			// App.Run stashes in the context.
			log.Logger = logger.Hook(logging.ContextHook{})
			logCloser = closer

			database, err = stores.Open(cfg.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			var enricher engine.Enricher
			if cfg.Enrichment.Enabled {
				apiKey := os.Getenv(cfg.Enrichment.APIKeyEnv)
				if apiKey == "" {
					log.Warn().Str("env", cfg.Enrichment.APIKeyEnv).
						Msg("enrichment enabled but API key is unset, using local parsing")
				} else {
					enricher = enrich.New(enrich.Config{
						Endpoint: cfg.Enrichment.Endpoint,
						Model:    cfg.Enrichment.Model,
						APIKey:   apiKey,
						Timeout:  cfg.Enrichment.Timeout,
					})
				}
			}

			eng := engine.New(engine.Options{
				Lock: oplock.New(cfg.Lock.Timeout),
				Match: match.Config{
					ScoreThreshold:       cfg.Match.ScoreThreshold,
					MinIntersection:      cfg.Match.MinIntersection,
					ShortReferenceTokens: cfg.Match.ShortReferenceTokens,
					MaxSuggestions:       cfg.Match.MaxSuggestions,
				},
				Enricher: enricher,
			})

			// Populate the pre-allocated App struct (commands already hold a
			// pointer to it)
			*twApp = *taskwise.NewApp(cfg, stores.NewTaskStore(database), eng)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewDoCmd(flags, twApp).Register(app)
	app = commands.NewAddCmd(flags, twApp).Register(app)
	app = commands.NewCompleteCmd(flags, twApp).Register(app)
	app = commands.NewDeleteCmd(flags, twApp).Register(app)
	app = commands.NewLsCmd(flags, twApp).Register(app)
	app = commands.NewStatsCmd(flags, twApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		if msg := runErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		exitCode = 1
	}

	os.Exit(exitCode)
}
