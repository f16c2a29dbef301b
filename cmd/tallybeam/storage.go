package main

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	"github.com/tallybeam/tallybeam/internal/platform/config"
	"github.com/tallybeam/tallybeam/internal/repositories/database/boltdb"
	"github.com/tallybeam/tallybeam/internal/repositories/database/pgsql"
	"github.com/tallybeam/tallybeam/pkg/database"
)

// openRepositories connects the configured store. The returned func releases it.
func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageBolt:
		store, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		logger.Info("Bolt store opened", slog.String("path", cfg.BoltPath))
		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Error("Failed to close bolt store", slog.String("error", err.Error()))
			}
		}
		return boltdb.NewRepositoryProvider(store), closeFn, nil

	case config.StoragePostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
	}
	return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
