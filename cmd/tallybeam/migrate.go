package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tallybeam/tallybeam/internal/platform/config"
	"github.com/tallybeam/tallybeam/pkg/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down>",
		Short:     "Apply or roll back PostgreSQL schema migrations",
		Long:      `Apply every pending migration ("up") or roll back the most recent one ("down").`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("migrations only apply to the %s driver, configured driver is %s", config.StoragePostgres, cfg.StorageDriver)
			}
			logger := slog.Default()
			logger.Info("Running database migrations", slog.String("direction", args[0]))
			return database.Migrate(cfg.DatabaseURL, database.MigrationDirection(args[0]), logger)
		},
	}
}
