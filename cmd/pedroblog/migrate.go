package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soypete/pedroblog/pkg/database"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create the database if needed and apply all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(true, func(ctx context.Context, db *database.DB) error {
				return db.Migrate(ctx, cmd.OutOrStdout())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(false, func(ctx context.Context, db *database.DB) error {
				return db.Rollback(ctx, cmd.OutOrStdout())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which migrations are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(false, func(ctx context.Context, db *database.DB) error {
				return db.Status(ctx, cmd.OutOrStdout())
			})
		},
	})

	return cmd
}

func withDatabase(create bool, fn func(ctx context.Context, db *database.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := database.Open
	if create {
		open = database.OpenOrCreate
	}

	db, err := open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	logger.Debug("database opened", slog.String("driver", cfg.Database.Driver))
	return fn(ctx, db)
}
