package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/poker-ledger/app"
	"github.com/Black-And-White-Club/poker-ledger/config"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/bundb"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/schema"
	"github.com/Black-And-White-Club/poker-ledger/pkg/eventbus"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "ledger",
		Usage: "poker game running-balance ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file", EnvVars: []string{"CONFIG_PATH"}},
		},
		Commands: []*cli.Command{
			serveCommand(),
			reportCommand(),
			exportCommand(),
			backupCommand(),
			wipeCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// withOfflineApp wires the modules without an event publisher for commands
// that run once and exit.
func withOfflineApp(fn func(c *cli.Context, a *app.App) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, logger, err := loadConfig(c)
		if err != nil {
			return err
		}

		db, err := bundb.Open(c.Context, cfg.Postgres.DSN, logger)
		if err != nil {
			return err
		}
		if err := bundb.Migrate(c.Context, db, schema.Modules(), logger); err != nil {
			db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		a, err := app.New(c.Context, cfg, logger, db, eventbus.NewNoop())
		if err != nil {
			db.Close()
			return err
		}
		defer a.Close()
		return fn(c, a)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.NewApp(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer func() {
				if err := a.Close(); err != nil {
					logger.Error("Failed to close application", slog.Any("error", err))
				}
			}()

			return a.Start(ctx)
		},
	}
}

func confirmed(c *cli.Context, prompt string) bool {
	if c.Bool("yes") {
		return true
	}
	fmt.Fprintf(c.App.Writer, "%s [y/N]: ", prompt)
	var answer string
	if _, err := fmt.Fscanln(os.Stdin, &answer); err != nil {
		return false
	}
	return answer == "y" || answer == "Y" || answer == "yes"
}
