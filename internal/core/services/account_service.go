package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
)

type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the account read/write service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, opts ...Option) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: applyOptions(opts).base(),
		accountRepo: accountRepo,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccounts lists the active accounts of userID, optionally of a single type.
func (s *accountService) GetAccounts(ctx context.Context, userID string, accountType *domain.AccountType) ([]domain.Account, error) {
	if accountType != nil && !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *accountType)
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, portsrepo.AccountFilter{
		UserID:     userID,
		Type:       accountType,
		ActiveOnly: true,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	s.LogDebug(ctx, "Accounts listed successfully from service", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) GetAccountBalance(ctx context.Context, userID string, accountID string) (decimal.Decimal, error) {
	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *accountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	account := domain.Account{
		AccountID:     uuid.NewString(),
		UserID:        userID,
		AccountNumber: req.AccountNumber,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Description:   req.Description,
		Balance:       decimal.Zero,
		IsActive:      true,
		AuditFields:   domain.NewAuditFields(userID, s.Now()),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully in service",
		slog.String("account_id", account.AccountID), slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// DeactivateAccount marks an account of userID as inactive. Its balance and
// history are kept and it still takes part in balance recalculation.
func (s *accountService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	if _, err := s.ownedAccount(ctx, userID, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to deactivate account in repository", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deactivated successfully in service", slog.String("account_id", accountID))
	return nil
}

// ownedAccount loads an account and hides accounts of other users behind ErrAccountNotFound.
func (s *accountService) ownedAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if !account.IsOwnedBy(userID) {
		return nil, apperrors.ErrAccountNotFound
	}
	return account, nil
}
