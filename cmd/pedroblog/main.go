// pedroblog is a single-author blog served as a web UI, a JSON API and a
// terminal REPL, all backed by one posts table.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soypete/pedroblog/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	// Global flags
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pedroblog",
		Short: "A small single-author blog",
		Long: `pedroblog lists posts newest first and lets the author publish new ones.

It can be used from the browser (pedroblog serve) or the terminal
(pedroblog repl). Storage is SQLite by default; PostgreSQL is supported.
Create the schema once with "pedroblog migrate up".`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: .pedroblog.json or .pedroblog.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(replCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pedroblog %s\n", version)
		},
	}
}

// loadConfig reads --config when given, otherwise the default locations.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := config.LoadDotEnv(".env"); err != nil {
			return nil, err
		}
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug.
func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
