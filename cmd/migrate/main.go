// Command migrate applies the conversion-record schema to the configured
// PostgreSQL database.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/crm-lineage/internal/adapter/postgres/migrate"
	"github.com/heartmarshall/crm-lineage/internal/app"
	"github.com/heartmarshall/crm-lineage/internal/config"
	"github.com/heartmarshall/crm-lineage/migrations"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the lineage database schema",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $CONFIG_PATH or ./config.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, logger, err := load(configPath)
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
				defer cancel()

				results, err := migrate.Up(ctx, cfg.Database.DSN, migrations.FS)
				if err != nil {
					return err
				}
				for _, r := range results {
					logger.Info("migration applied",
						slog.Int64("version", r.Source.Version),
						slog.String("file", r.Source.Path),
						slog.Duration("duration", r.Duration),
					)
				}
				logger.Info("schema up to date", slog.Int("applied", len(results)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show which migrations are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, _, err := load(configPath)
				if err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
				defer cancel()

				statuses, err := migrate.Status(ctx, cfg.Database.DSN, migrations.FS)
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"Version", "File", "State", "Applied At"})
				for _, s := range statuses {
					applied := "-"
					if !s.AppliedAt.IsZero() {
						applied = s.AppliedAt.UTC().Format(time.RFC3339)
					}
					t.AppendRow(table.Row{s.Source.Version, s.Source.Path, string(s.State), applied})
				}
				t.Render()
				return nil
			},
		},
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(path string) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(cfg.Log), nil
}
