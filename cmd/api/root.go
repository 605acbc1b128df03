package main

import (
	"github.com/spf13/cobra"

	"github.com/jwalitptl/practice-dashboard/internal/config"
	"github.com/jwalitptl/practice-dashboard/pkg/logger"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Practice dashboard API",
		Long: `Backend for the clinic practice dashboard: sessions and profiles,
list pages for every resource, and realtime notices.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "config.yaml", "config file path")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())

	return cmd
}

// loadConfig reads the config named by the root --config flag and installs
// the global logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Setup(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}
