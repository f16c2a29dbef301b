package services

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/utils/accounting"
)

type balanceService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionReader
}

// NewBalanceService creates the balance recalculation engine.
func NewBalanceService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionReader, opts ...Option) portssvc.BalanceSvc {
	return &balanceService{
		BaseService: applyOptions(opts).base(),
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// UpdateAccountBalances recomputes every balance of userID from scratch.
// Inactive accounts are included; a stored balance is never used as a starting point.
func (s *balanceService) UpdateAccountBalances(ctx context.Context, userID string) error {
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{UserID: userID})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for recalculation", slog.String("user_id", userID))
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	now := s.Now()
	updated := 0
	for _, acc := range accounts {
		txns, err := s.txnRepo.FindPostedTransactionsByAccount(ctx, userID, acc.AccountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to load transactions for account", slog.String("account_id", acc.AccountID))
			return fmt.Errorf("failed to load transactions for account %s: %w", acc.AccountID, err)
		}

		balance, err := accounting.AccountBalance(acc, txns)
		if err != nil {
			return fmt.Errorf("failed to compute balance of account %s: %w", acc.AccountID, err)
		}
		if balance.Equal(acc.Balance) {
			continue
		}

		if err := s.accountRepo.UpdateAccountBalance(ctx, acc.AccountID, balance, userID, now); err != nil {
			s.LogError(ctx, err, "Failed to persist account balance", slog.String("account_id", acc.AccountID))
			return fmt.Errorf("failed to update balance of account %s: %w", acc.AccountID, err)
		}
		updated++
	}

	s.LogInfo(ctx, "Account balances recalculated",
		slog.String("user_id", userID),
		slog.Int("account_count", len(accounts)),
		slog.Int("updated_count", updated))
	return nil
}
