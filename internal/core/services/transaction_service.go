package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/utils/accounting"
	"github.com/tallybeam/tallybeam/internal/utils/numbering"
	"github.com/tallybeam/tallybeam/internal/utils/pagination"
)

const (
	defaultTransactionPageSize = 50
	maxTransactionPageSize     = 500
)

type transactionService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionRepositoryFacade
	balances    portssvc.BalanceSvc
}

// NewTransactionService creates the generic ledger transaction service.
func NewTransactionService(
	accountRepo portsrepo.AccountReader,
	txnRepo portsrepo.TransactionRepositoryFacade,
	balances portssvc.BalanceSvc,
	opts ...Option,
) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService: applyOptions(opts).base(),
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		balances:    balances,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransactions(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error) {
	w := pagination.Window{Limit: limit, Offset: offset}.Normalize(defaultTransactionPageSize, maxTransactionPageSize)
	txns, err := s.txnRepo.ListTransactions(ctx, portsrepo.TransactionFilter{
		UserID: userID,
		Order:  portsrepo.OrderByDateDesc,
		Limit:  w.Limit,
		Offset: w.Offset,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions from repository", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

// CreateTransaction validates and stores a transaction with the next
// sequential number of the user. Balances are left for the caller to recalculate.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: a transaction needs at least one line", apperrors.ErrValidation)
	}

	lines, err := s.buildLines(ctx, userID, req.Lines)
	if err != nil {
		return nil, err
	}

	last, err := s.txnRepo.FindMaxSequentialNumber(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read last transaction number", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to generate transaction number: %w", err)
	}

	now := s.Now()
	status := req.Status
	if status == "" {
		status = domain.StatusPosted
	}
	date := now
	if req.Date != nil {
		date = req.Date.UTC()
	}

	txn := domain.Transaction{
		TransactionID:     uuid.NewString(),
		UserID:            userID,
		TransactionNumber: numbering.NextSequential(last),
		Date:              date,
		Description:       req.Description,
		Type:              req.Type,
		Status:            status,
		Lines:             lines,
		Reference:         req.Reference,
		Memo:              req.Memo,
		RelatedInvoiceID:  req.RelatedInvoiceID,
		AuditFields:       domain.NewAuditFields(userID, now),
	}
	txn.RecalculateTotals()
	if !txn.IsBalanced {
		s.LogWarn(ctx, "Storing unbalanced transaction",
			slog.String("transaction_number", txn.TransactionNumber),
			slog.String("total_debit", txn.TotalDebit.String()),
			slog.String("total_credit", txn.TotalCredit.String()))
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save transaction in repository", slog.String("transaction_id", txn.TransactionID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created successfully in service",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber),
		slog.String("type", string(txn.Type)))
	return &txn, nil
}

// buildLines validates each requested line and snapshots the account name and number onto it.
func (s *transactionService) buildLines(ctx context.Context, userID string, reqs []dto.TransactionLineRequest) ([]domain.TransactionLine, error) {
	accounts := make(map[string]*domain.Account, len(reqs))
	lines := make([]domain.TransactionLine, 0, len(reqs))
	for i, r := range reqs {
		line := domain.TransactionLine{
			AccountID:   r.AccountID,
			Debit:       domain.RoundAmount(r.Debit),
			Credit:      domain.RoundAmount(r.Credit),
			Description: r.Description,
		}
		if err := accounting.ValidateLine(line); err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrInvalidLine, i+1, err.Error())
		}

		account, ok := accounts[r.AccountID]
		if !ok {
			found, err := s.accountRepo.FindAccountByID(ctx, r.AccountID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, r.AccountID)
				}
				s.LogError(ctx, err, "Failed to load account for transaction line", slog.String("account_id", r.AccountID))
				return nil, fmt.Errorf("failed to load account %s: %w", r.AccountID, err)
			}
			if !found.IsOwnedBy(userID) {
				return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, r.AccountID)
			}
			accounts[r.AccountID] = found
			account = found
		}

		line.AccountName = account.Name
		line.AccountNumber = account.AccountNumber
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *transactionService) UpdateTransactionStatus(ctx context.Context, userID string, transactionID string, status domain.TransactionStatus) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		s.LogError(ctx, err, "Failed to find transaction by ID in repository", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if !txn.IsOwnedBy(userID) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if !txn.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidStatusTransition, txn.Status, status)
	}

	txn.Status = status
	txn.Touch(userID, s.Now())
	refreshTotals(txn)
	if err := s.txnRepo.UpdateTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction status", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	if err := s.balances.UpdateAccountBalances(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to recalculate balances: %w", err)
	}

	s.LogInfo(ctx, "Transaction status updated",
		slog.String("transaction_id", transactionID), slog.String("status", string(status)))
	return txn, nil
}
