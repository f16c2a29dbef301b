package repositories

import (
	"context"

	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// TransactionOrder selects the sort order of ListTransactions.
type TransactionOrder int

const (
	// OrderByDateDesc sorts by date descending, then creation time descending.
	OrderByDateDesc TransactionOrder = iota
	// OrderByCreatedDesc sorts by creation time descending.
	OrderByCreatedDesc
)

// TransactionFilter narrows ListTransactions and CountTransactions.
// Zero values mean "no constraint", except UserID which is always required.
type TransactionFilter struct {
	UserID        string
	Type          domain.TransactionType
	InvoiceStatus domain.InvoiceStatus
	Order         TransactionOrder
	Limit         int
	Offset        int
}

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns one page of a user's transactions. Limit and Offset are honoured.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)

	// CountTransactions counts every transaction matching filter, ignoring Limit and Offset.
	CountTransactions(ctx context.Context, filter TransactionFilter) (int, error)

	// FindPostedTransactionsByAccount returns every posted transaction of userID
	// with at least one line referencing accountID.
	FindPostedTransactionsByAccount(ctx context.Context, userID string, accountID string) ([]domain.Transaction, error)

	// FindMaxSequentialNumber returns the highest purely numeric transaction
	// number of userID, or 0 when there is none.
	FindMaxSequentialNumber(ctx context.Context, userID string) (int64, error)
}

// TransactionWriter defines write operations for ledger transactions.
// Implementations persist the header and its lines atomically.
type TransactionWriter interface {
	// SaveTransaction stores a new transaction. A duplicate (userID, transactionNumber)
	// fails with apperrors.ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction replaces the stored header and lines of an existing transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
