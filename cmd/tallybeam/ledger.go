package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tallybeam/tallybeam/internal/adapters/export"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/core/services"
	"github.com/tallybeam/tallybeam/internal/middleware"
	"github.com/tallybeam/tallybeam/internal/platform/config"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Maintain a user's ledger",
		Long:  `Seed the default chart of accounts, recalculate balances or export a user's ledger.`,
	}
	cmd.PersistentFlags().String("user", "", "user id (identity provider subject)")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(ledgerSeedCmd())
	cmd.AddCommand(ledgerRecalcCmd())
	cmd.AddCommand(ledgerExportCmd())
	return cmd
}

// withLedger opens the configured store, builds the services and runs fn.
func withLedger(cmd *cobra.Command, fn func(ctx context.Context, svc *portssvc.ServiceContainer, userID string) error) error {
	userID, _ := cmd.Flags().GetString("user")
	logger := slog.Default().With(slog.String("user_id", userID))
	ctx := middleware.WithLogger(cmd.Context(), logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	repos, closeRepos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	svc := services.NewServiceContainer(repos, services.Collaborators{Exporter: export.NewXLSXExporter()})
	return fn(ctx, svc, userID)
}

func ledgerSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default chart of accounts",
		Long:  `Create the default chart of accounts for a user who has none. Existing charts are left alone.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, userID string) error {
				accounts, err := svc.Chart.SetupDefaultChartOfAccounts(ctx, userID)
				if err != nil {
					return err
				}
				slog.Info("Chart of accounts ready", slog.String("user_id", userID), slog.Int("accounts", len(accounts)))
				return nil
			})
		},
	}
}

func ledgerRecalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc",
		Short: "Recompute account balances from posted transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLedger(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, userID string) error {
				if err := svc.Balance.UpdateAccountBalances(ctx, userID); err != nil {
					return err
				}
				slog.Info("Balances recalculated", slog.String("user_id", userID))
				return nil
			})
		},
	}
}

func ledgerExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart and journal to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")
			return withLedger(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer, userID string) error {
				data, err := svc.Export.ExportLedger(ctx, userID)
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				slog.Info("Ledger exported", slog.String("user_id", userID), slog.String("file", out), slog.Int("bytes", len(data)))
				return nil
			})
		},
	}
	cmd.Flags().String("out", "ledger.xlsx", "output file")
	return cmd
}
