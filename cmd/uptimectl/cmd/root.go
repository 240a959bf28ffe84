package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Krosebrook/oneuptime/internal/config"
	"github.com/Krosebrook/oneuptime/internal/domain"
	"github.com/Krosebrook/oneuptime/internal/store/postgres"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "uptimectl",
	Short: "Operator CLI for the subscriber notification worker",
	Long: `uptimectl manages the status-page subscriber notification pipeline.

Inspect note notification status, re-queue failed notes, and run schema
migrations.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
}

func openDB(ctx context.Context) (*postgres.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return postgres.New(ctx, cfg.DatabaseURL)
}

func parseKind(s string) (domain.EventKind, error) {
	switch s {
	case "incident":
		return domain.EventKindIncident, nil
	case "maintenance", "scheduled-maintenance":
		return domain.EventKindScheduledMaintenance, nil
	}
	return "", fmt.Errorf("unknown kind %q (want incident or maintenance)", s)
}
