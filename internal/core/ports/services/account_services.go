package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/dto"
)

// ChartOfAccountsSvc seeds and resolves the accounts the posting workflows rely on.
type ChartOfAccountsSvc interface {
	// SetupDefaultChartOfAccounts creates the default chart for userID unless the
	// user already has at least one account, in which case the existing set is
	// returned unchanged.
	SetupDefaultChartOfAccounts(ctx context.Context, userID string) ([]domain.Account, error)

	// ResolveWellKnownAccounts finds the accounts filling roles, seeding the
	// default chart once if any is missing.
	ResolveWellKnownAccounts(ctx context.Context, userID string, roles ...domain.WellKnownAccount) (map[domain.WellKnownAccount]domain.Account, error)
}

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccounts lists the user's active accounts, optionally of one type, by account number.
	GetAccounts(ctx context.Context, userID string, accountType *domain.AccountType) ([]domain.Account, error)

	// GetAccountBalance returns the materialized balance of one of the user's accounts.
	GetAccountBalance(ctx context.Context, userID string, accountID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, userID string, accountID string) error
}

// BalanceSvc recomputes materialized balances from the transaction log.
type BalanceSvc interface {
	// UpdateAccountBalances recomputes every account of userID from its posted lines.
	UpdateAccountBalances(ctx context.Context, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
