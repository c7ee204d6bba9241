package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/lostfound/internal/config"
)

var (
	// Flags that override the loaded configuration.
	dbPath  string
	logPath string

	cfg      *config.Config
	closeLog func()
)

var rootCmd = &cobra.Command{
	Use:   "lostfound",
	Short: "Lost and found reporting service",
	Long: `lostfound lets people report items they found or lost. Found items are
photographed and pinned on a map, then checked against open lost reports by
a matching service.

Configuration is read from CONFIG_PATH (default ./lostfound.yaml) and
LOSTFOUND_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}
		if logPath != "" {
			cfg.Log.Path = logPath
		}

		level, err := cfg.Log.SlogLevel()
		if err != nil {
			return err
		}
		closeLog, err = setupLogger(cfg.Log.Path, level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides database.path)")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (default: stdout/stderr only)")

	rootCmd.AddCommand(serveCmd, matcherCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
