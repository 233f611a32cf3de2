package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ndewijer/Migration-Dashboard/internal/app"
	"github.com/ndewijer/Migration-Dashboard/internal/config"
	"github.com/ndewijer/Migration-Dashboard/internal/logging"
	"github.com/ndewijer/Migration-Dashboard/internal/version"
)

// errReported marks a failure the dashboard view has already shown.
var errReported = errors.New("action failed")

var (
	apiBase  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "migdash",
	Short: "Migration dashboard for the terminal",
	Long: `migdash shows migration, version and backup state of the migration
management API and lets you upload, apply and roll back migrations.

Configuration is read from .env, env.local and the environment
(MIGDASH_API_BASE, DB_PATH, MIGDASH_TOKEN_KEY, ...).`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "migdash version %s\n", version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiBase, "api", "", "Migration API base URL (overrides MIGDASH_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides MIGDASH_LOG_LEVEL)")

	rootCmd.AddCommand(
		statusCmd,
		versionsCmd,
		backupsCmd,
		watchCmd,
		uploadCmd,
		applyCmd,
		rollbackCmd,
		backupCmd,
		historyCmd,
		tokenCmd,
		versionCmd,
	)
}

// openApp loads configuration, applies flag overrides and opens the local store.
func openApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiBase != "" {
		cfg.Dashboard.APIBase = apiBase
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	// Keep the terminal output readable; logs only surface warnings by default.
	if os.Getenv("MIGDASH_LOG_LEVEL") == "" && logLevel == "" {
		cfg.Log.Level = "warning"
	}

	log := logging.Initialize(cfg.Log.Level, cfg.Log.Format)
	return app.Open(cfg, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
