package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Black-And-White-Club/poker-ledger/config"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/bundb"
	"github.com/Black-And-White-Club/poker-ledger/internal/db/schema"
	"github.com/Black-And-White-Club/poker-ledger/pkg/observability"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

// moduleMigrator pairs a module name with its migrator, preserving the
// dependency order of schema.Modules.
type moduleMigrator struct {
	name     string
	migrator *migrate.Migrator
}

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "poker-ledger database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openMigrators(c *cli.Context) (*bun.DB, []moduleMigrator, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.NewLogger(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	db, err := bundb.Open(c.Context, cfg.Postgres.DSN, logger)
	if err != nil {
		return nil, nil, err
	}

	var migrators []moduleMigrator
	for _, set := range schema.Modules() {
		migrators = append(migrators, moduleMigrator{name: set.Module, migrator: bundb.NewMigrator(db, set)})
	}
	return db, migrators, nil
}

func findMigrator(migrators []moduleMigrator, name string) (*migrate.Migrator, error) {
	for _, m := range migrators {
		if m.name == name {
			return m.migrator, nil
		}
	}
	return nil, fmt.Errorf("invalid module name: %q", name)
}

// withMigrators opens the database for the duration of one command.
func withMigrators(fn func(c *cli.Context, migrators []moduleMigrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, migrators, err := openMigrators(c)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(c, migrators)
	}
}

func newMultiModuleDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, migrators []moduleMigrator) error {
					for _, m := range migrators {
						fmt.Printf("Initializing migrations for module: %s\n", m.name)
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("failed to initialize migrations for module %s: %w", m.name, err)
						}
					}
					return nil
				}),
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: withMigrators(func(c *cli.Context, migrators []moduleMigrator) error {
					for _, m := range migrators {
						if err := m.migrator.Init(c.Context); err != nil {
							return fmt.Errorf("failed to initialize migrations for module %s: %w", m.name, err)
						}
						fmt.Printf("Running migrations for module: %s\n", m.name)
						group, err := m.migrator.Migrate(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", m.name)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module",
				Action: withMigrators(func(c *cli.Context, migrators []moduleMigrator) error {
					// Dependents first: settlement and ledger reference players.
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						fmt.Printf("Rolling back migrations for module: %s\n", m.name)
						group, err := m.migrator.Rollback(c.Context)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, migrators []moduleMigrator) error {
					moduleName := c.Args().First()
					migrator, err := findMigrator(migrators, moduleName)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, migrators []moduleMigrator) error {
					moduleName := c.Args().First()
					migrator, err := findMigrator(migrators, moduleName)
					if err != nil {
						return err
					}

					name := strings.Join(c.Args().Tail(), "_")
					files, err := migrator.CreateSQLMigrations(c.Context, name)
					if err != nil {
						return err
					}

					for _, mf := range files {
						fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					}

					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, migrators []moduleMigrator) error {
					for _, m := range migrators {
						ms, err := m.migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", m.name)
						fmt.Printf("  %s\n", ms)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}
