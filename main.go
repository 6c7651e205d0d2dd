package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/taskboard/internal/board"
	"github.com/hay-kot/taskboard/internal/commands"
	"github.com/hay-kot/taskboard/internal/core/auth"
	"github.com/hay-kot/taskboard/internal/core/config"
	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/styles"
	"github.com/hay-kot/taskboard/internal/data/db"
	"github.com/hay-kot/taskboard/internal/data/stores"
	"github.com/hay-kot/taskboard/pkg/logutils"
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
		boardApp  = &board.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "taskboard",
		Usage:     "Kanban tasks with automatic time tracking",
		UsageText: "taskboard [global options] command [command options]",
		Description: `Taskboard keeps a local kanban board with configurable status columns.

Moving a task in or out of the "in progress" column opens and closes
time entries automatically; everything else is explicit.

Run 'taskboard task list' to see the board.
Run 'taskboard watch' for a live view that follows changes.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TASKBOARD_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/taskboard.log)",
				Sources:     cli.EnvVars("TASKBOARD_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TASKBOARD_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TASKBOARD_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/taskboard.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "taskboard.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			// Open database connection
			dbOpts := db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			}
			database, err = db.Open(cfg.DataDir, dbOpts)
			if err != nil && stores.IsCorruptionError(err) {
				log.Warn().Err(err).Msg("database corrupted, backing up and recreating")
				if recErr := stores.RecoverFromCorruption(cfg.DataDir); recErr != nil {
					return ctx, fmt.Errorf("recover corrupted database: %w", recErr)
				}
				database, err = db.Open(cfg.DataDir, dbOpts)
			}
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// Create stores
			taskStore := stores.NewTaskStore(database)
			statusStore := stores.NewStatusStore(database)
			entryStore := stores.NewTimeEntryStore(database)

			// Start the event bus dispatch loop
			bus := eventbus.New(64)
			eventbus.RegisterDebugLogger(bus, log.Logger)
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			oracle := auth.NewStaticOracle(auth.User{
				ID:   cfg.Identity.ID,
				Name: cfg.Identity.Name,
			}, cfg.Capabilities)

			tracker := board.NewTracker(entryStore, bus, log.Logger)
			boardSvc := board.NewService(
				taskStore,
				statusStore,
				tracker,
				oracle,
				bus,
				log.Logger,
				board.LoadLimits{Tasks: cfg.Board.TaskLimit, Entries: cfg.Board.TimeEntryLimit},
			)
			registrySvc := board.NewRegistryService(statusStore, bus, log.Logger)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*boardApp = *board.NewApp(
				boardSvc,
				registrySvc,
				tracker,
				oracle,
				bus,
				cfg,
				database,
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Stop the bus dispatch loop
			if busCancel != nil {
				busCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewTaskCmd(flags, boardApp).Register(app)
	app = commands.NewStatusCmd(flags, boardApp).Register(app)
	app = commands.NewTimeCmd(flags, boardApp).Register(app)
	app = commands.NewWatchCmd(flags, boardApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
