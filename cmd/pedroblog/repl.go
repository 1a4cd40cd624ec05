package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/soypete/pedroblog/pkg/client"
	"github.com/soypete/pedroblog/pkg/posts"
	"github.com/soypete/pedroblog/pkg/repl"
	"github.com/soypete/pedroblog/pkg/ui"
)

func replCmd() *cobra.Command {
	var (
		server string
		memory bool
	)

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read and write posts from the terminal",
		Long: `Start the interactive terminal UI.

By default posts are read from and written to the configured database.
With --server the REPL talks to a running "pedroblog serve" instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			var svc ui.PostService
			if server != "" {
				svc = client.NewClient(server)
			} else {
				store := openStorage(ctx, cfg, memory, logger)
				defer store.Close()
				svc = posts.NewService(store, cfg.Author.ID, logger)
			}

			input, err := repl.NewInputHandler()
			if err != nil {
				return fmt.Errorf("failed to start terminal input: %w", err)
			}

			r := repl.NewREPL(ui.NewController(ctx, svc, logger), input, repl.Options{
				Author: cfg.Author.Name,
				Output: os.Stdout,
				Logger: logger,
			})
			return r.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Base URL of a pedroblog server, e.g. http://127.0.0.1:8080")
	cmd.Flags().BoolVar(&memory, "memory", false, "Keep posts in memory instead of the database")

	return cmd
}
