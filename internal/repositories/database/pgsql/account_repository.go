package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	"github.com/tallybeam/tallybeam/internal/models"
	"github.com/tallybeam/tallybeam/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, account_number, name, account_type, category, subcategory,
	description, balance, is_active, is_default, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.AccountNumber,
		&m.Name,
		&m.AccountType,
		&m.Category,
		&m.Subcategory,
		&m.Description,
		&m.Balance,
		&m.IsActive,
		&m.IsDefault,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.UserID,
		m.AccountNumber,
		m.Name,
		m.AccountType,
		m.Category,
		m.Subcategory,
		m.Description,
		m.Balance,
		m.IsActive,
		m.IsDefault,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// ListAccounts retrieves the accounts of a user ordered by account number.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, fmt.Sprintf("account_type = $%d", len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active")
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY account_number ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", filter.UserID, err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccountBalance overwrites the materialized balance of an account.
func (r *PgxAccountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $1, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, balance, now, userID, accountID)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an active account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE account_id = $3 AND is_active;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, now, userID, accountID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
	}
	return nil
}
