package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// AccountFilter narrows ListAccounts. UserID is always required.
type AccountFilter struct {
	UserID     string
	Type       *domain.AccountType
	ActiveOnly bool
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts returns the accounts matching filter sorted by account number ascending.
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A second account with the same
	// (userID, accountNumber) fails with apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountBalance overwrites the materialized balance of an account.
	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
