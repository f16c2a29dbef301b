package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	"github.com/tallybeam/tallybeam/internal/models"
	"github.com/tallybeam/tallybeam/internal/utils/mapping"
)

type PgxUserRepository struct {
	db *pgxpool.Pool
}

func newPgxUserRepository(db *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{db: db}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, email, first_name, last_name, image_url, is_active, last_login_at,
			default_currency, default_payment_method, email_notifications, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Email,
		m.FirstName,
		m.LastName,
		m.ImageURL,
		m.IsActive,
		m.LastLoginAt,
		m.DefaultCurrency,
		m.DefaultPaymentMethod,
		m.EmailNotifications,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user %s already exists", apperrors.ErrDuplicate, m.UserID)
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, email, first_name, last_name, image_url, is_active, last_login_at,
			default_currency, default_payment_method, email_notifications, created_at, updated_at
		FROM users
		WHERE user_id = $1;
	`
	var m models.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.UserID,
		&m.Email,
		&m.FirstName,
		&m.LastName,
		&m.ImageURL,
		&m.IsActive,
		&m.LastLoginAt,
		&m.DefaultCurrency,
		&m.DefaultPaymentMethod,
		&m.EmailNotifications,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		UPDATE users SET
			email = $2, first_name = $3, last_name = $4, image_url = $5, is_active = $6, last_login_at = $7,
			default_currency = $8, default_payment_method = $9, email_notifications = $10, updated_at = $11
		WHERE user_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		m.UserID,
		m.Email,
		m.FirstName,
		m.LastName,
		m.ImageURL,
		m.IsActive,
		m.LastLoginAt,
		m.DefaultCurrency,
		m.DefaultPaymentMethod,
		m.EmailNotifications,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", m.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
