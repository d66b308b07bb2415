package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/routedesk/internal/adapters/postgres"
	"github.com/samirrijal/routedesk/internal/pkg/config"
	"github.com/samirrijal/routedesk/internal/pkg/logging"
)

var timeout time.Duration

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the RouteDesk database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *postgres.DB) error {
			applied, err := db.Migrate(ctx)
			if err != nil {
				return err
			}
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "OK  %s\n", name)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List embedded migrations and whether each is applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *postgres.DB) error {
			migrations, err := db.Migrations(ctx)
			if err != nil {
				return err
			}
			for _, m := range migrations {
				state := "pending"
				if m.Applied {
					state = "applied"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", state, m.Name)
			}
			return nil
		})
	},
}

func withDB(parent context.Context, fn func(ctx context.Context, db *postgres.DB) error) error {
	cfg, err := config.Load("routedesk-migrate")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	return fn(ctx, db)
}

func main() {
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "give up after this long")
	rootCmd.AddCommand(upCmd, statusCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
