package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soypete/pedroblog/pkg/config"
	"github.com/soypete/pedroblog/pkg/database"
	"github.com/soypete/pedroblog/pkg/httpbridge"
	"github.com/soypete/pedroblog/pkg/posts"
	"github.com/soypete/pedroblog/pkg/storage/blog"
	"github.com/soypete/pedroblog/pkg/ui"
)

func serveCmd() *cobra.Command {
	var (
		addr   string
		memory bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and JSON API",
		Long: `Serve the blog over HTTP.

Routes:
  GET  /            web UI
  GET  /ws          live state updates for the web UI
  GET  /api/posts   list posts as JSON
  POST /api/posts   create a post {"title": "...", "body": "..."}
  GET  /api/health  health check
  GET  /metrics     Prometheus metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			if addr == "" {
				addr = cfg.Web.Addr()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := openStorage(ctx, cfg, memory, logger)
			defer store.Close()

			svc := posts.NewService(store, cfg.Author.ID, logger)
			ctrl := ui.NewController(ctx, svc, logger)

			srv, err := httpbridge.NewServer(ctrl, svc, httpbridge.Options{
				Author: cfg.Author.Name,
				Logger: logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep posts in memory instead of the database")

	return cmd
}

// openStorage picks the post store. The database is only probed here: a
// missing schema is reported, never created.
func openStorage(ctx context.Context, cfg *config.Config, memory bool, logger *slog.Logger) blog.Storage {
	if memory {
		logger.Info("using in-memory post storage")
		return blog.NewMemoryStorage()
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logger.Warn("database is not reachable; requests will fail until it is",
			slog.String("driver", cfg.Database.Driver),
			slog.String("error", err.Error()),
			slog.String("hint", "run: pedroblog migrate up"),
		)
	} else {
		db.Close()
		logger.Info("using database post storage", slog.String("driver", cfg.Database.Driver))
	}

	return blog.NewDatabaseStorage(cfg.Database)
}
