package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tallybeam/tallybeam/internal/apperrors"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
)

type exportService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
	exporter    portssvc.LedgerExporter
}

// NewExportService creates the ledger export service.
func NewExportService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader, exporter portssvc.LedgerExporter, opts ...Option) portssvc.ExportSvc {
	return &exportService{
		BaseService: applyOptions(opts).base(),
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		exporter:    exporter,
	}
}

var _ portssvc.ExportSvc = (*exportService)(nil)

// ExportLedger writes every account, including inactive ones, and every
// transaction of userID in journal order.
func (s *exportService) ExportLedger(ctx context.Context, userID string) ([]byte, error) {
	if s.exporter == nil {
		return nil, apperrors.NewAppError(500, "ledger export is not configured", nil)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{UserID: userID})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for export", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	txns, err := s.txnRepo.ListTransactions(ctx, portsrepo.TransactionFilter{
		UserID: userID,
		Order:  portsrepo.OrderByDateDesc,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions for export", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	out, err := s.exporter.ExportLedger(ctx, accounts, txns)
	if err != nil {
		s.LogError(ctx, err, "Failed to build ledger workbook", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to export ledger: %w", err)
	}
	s.LogInfo(ctx, "Ledger exported",
		slog.String("user_id", userID),
		slog.Int("account_count", len(accounts)),
		slog.Int("transaction_count", len(txns)),
		slog.Int("bytes", len(out)))
	return out, nil
}
