package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Black-And-White-Club/poker-ledger/app"
	settlementservice "github.com/Black-And-White-Club/poker-ledger/app/modules/settlement/application"
	"github.com/Black-And-White-Club/poker-ledger/internal/backup"
	"github.com/Black-And-White-Club/poker-ledger/internal/report"
	"github.com/urfave/cli/v2"
)

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "print the current ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "style", Value: "dark", Usage: "glamour style: dark, light, notty"},
			&cli.IntFlag{Name: "width", Value: 120, Usage: "word wrap width"},
			&cli.BoolFlag{Name: "raw", Usage: "print markdown without styling"},
		},
		Action: withOfflineApp(func(c *cli.Context, a *app.App) error {
			rows, err := a.Modules.Settlement.SettlementService.LedgerSnapshot(c.Context)
			if err != nil {
				return err
			}

			md := report.Markdown(rows, time.Now())
			if c.Bool("raw") {
				_, err := fmt.Fprint(c.App.Writer, md)
				return err
			}
			out, err := report.Render(md, c.String("style"), c.Int("width"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.App.Writer, out)
			return err
		}),
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the ledger as a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: string(settlementservice.ExportCSV), Usage: "csv or xlsx"},
			&cli.StringFlag{Name: "out", Value: ".", Usage: "output directory"},
		},
		Action: withOfflineApp(func(c *cli.Context, a *app.App) error {
			file, err := a.Modules.Settlement.SettlementService.Export(c.Context, settlementservice.ExportFormat(c.String("format")))
			if err != nil {
				return err
			}
			path := filepath.Join(c.String("out"), file.FileName)
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
			return nil
		}),
	}
}

func newBackupService(a *app.App) *backup.Service {
	return backup.NewService(
		a.Modules.Player.Repository,
		a.Modules.Ledger.Repository,
		a.Modules.Settlement.Repository,
		a.DB,
		a.Logger,
	)
}

func backupCommand() *cli.Command {
	dirFlag := &cli.StringFlag{Name: "dir", Value: "backups", Usage: "backup directory"}
	return &cli.Command{
		Name:  "backup",
		Usage: "export or restore a JSON snapshot of all data",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "write every table to timestamped JSON files",
				Flags: []cli.Flag{dirFlag},
				Action: withOfflineApp(func(c *cli.Context, a *app.App) error {
					summary, err := newBackupService(a).Export(c.Context, c.String("dir"))
					if err != nil {
						return err
					}
					return printJSON(c, summary)
				}),
			},
			{
				Name:  "import",
				Usage: "restore the latest snapshot in a directory",
				Flags: []cli.Flag{dirFlag},
				Action: withOfflineApp(func(c *cli.Context, a *app.App) error {
					result, err := newBackupService(a).Import(c.Context, c.String("dir"))
					if err != nil {
						return err
					}
					return printJSON(c, result)
				}),
			},
		},
	}
}

func wipeCommand() *cli.Command {
	return &cli.Command{
		Name:  "wipe",
		Usage: "delete every player, entry and payment",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Usage: "skip the confirmation prompt"},
		},
		Action: withOfflineApp(func(c *cli.Context, a *app.App) error {
			if !confirmed(c, "Delete all ledger data?") {
				return cli.Exit("aborted", 1)
			}
			result, err := a.Modules.Ledger.LedgerService.WipeAll(c.Context)
			if err != nil {
				return err
			}
			return printJSON(c, result)
		}),
	}
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
