package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/tallybeam/tallybeam/internal/adapters/export"
	"github.com/tallybeam/tallybeam/internal/adapters/extractor"
	"github.com/tallybeam/tallybeam/internal/adapters/pdf"
	"github.com/tallybeam/tallybeam/internal/core/services"
	"github.com/tallybeam/tallybeam/internal/handlers"
	"github.com/tallybeam/tallybeam/internal/middleware"
	"github.com/tallybeam/tallybeam/internal/platform/config"
	"github.com/tallybeam/tallybeam/internal/utils"
	"github.com/tallybeam/tallybeam/pkg/database"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Start the invoicing and accounting API. With the postgres driver pending
migrations are applied before the server starts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context())
		},
	}
}

// @title TallyBeam API
// @version 1.0
// @description Invoicing and double-entry accounting API.

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func runServer(ctx context.Context) error {
	logger := slog.Default()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.StorageDriver == config.StoragePostgres {
		logger.Info("Running database migrations...")
		if err := database.Migrate(cfg.DatabaseURL, database.MigrateUp, logger); err != nil {
			return err
		}
	}

	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	collab := services.Collaborators{
		Renderer: pdf.NewInvoiceRenderer(),
		Exporter: export.NewXLSXExporter(),
	}
	if cfg.GeminiAPIKey != "" || cfg.GeminiAccessToken != "" {
		gemini, err := extractor.NewGeminiExtractor(ctx, extractor.Config{
			APIKey:      cfg.GeminiAPIKey,
			AccessToken: cfg.GeminiAccessToken,
			Model:       cfg.GeminiModel,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize invoice text extractor: %w", err)
		}
		collab.Extractor = gemini
	}
	serviceContainer := services.NewServiceContainer(repos, collab)

	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer analytics.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, analytics); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
