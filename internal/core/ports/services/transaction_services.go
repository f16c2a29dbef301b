package services

import (
	"context"

	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger transactions
type TransactionReaderSvc interface {
	// GetTransactions returns a page of the user's transactions, newest date first.
	GetTransactions(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines write operations for ledger transactions
type TransactionWriterSvc interface {
	// CreateTransaction stores a new transaction with a sequential number.
	// It does not recalculate balances.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransactionStatus moves a transaction pending→posted or posted→void
	// and recalculates balances.
	UpdateTransactionStatus(ctx context.Context, userID string, transactionID string, status domain.TransactionStatus) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
