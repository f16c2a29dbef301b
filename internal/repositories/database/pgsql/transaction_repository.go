package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	"github.com/tallybeam/tallybeam/internal/models"
	"github.com/tallybeam/tallybeam/internal/utils/mapping"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger transactions and their lines.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, transaction_number, transaction_date, description,
	transaction_type, status, total_debit, total_credit, is_balanced, reference, memo, related_invoice_id,
	client_name, client_email, currency, due_date, issue_date, notes, invoice_status, payment_method,
	venmo_username, created_at, created_by, last_updated_at, last_updated_by`

func transactionArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID,
		m.UserID,
		m.TransactionNumber,
		m.TransactionDate,
		m.Description,
		m.TransactionType,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.IsBalanced,
		m.Reference,
		m.Memo,
		m.RelatedInvoiceID,
		m.ClientName,
		m.ClientEmail,
		m.Currency,
		m.DueDate,
		m.IssueDate,
		m.Notes,
		m.InvoiceStatus,
		m.PaymentMethod,
		m.VenmoUsername,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.TransactionNumber,
		&m.TransactionDate,
		&m.Description,
		&m.TransactionType,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.IsBalanced,
		&m.Reference,
		&m.Memo,
		&m.RelatedInvoiceID,
		&m.ClientName,
		&m.ClientEmail,
		&m.Currency,
		&m.DueDate,
		&m.IssueDate,
		&m.Notes,
		&m.InvoiceStatus,
		&m.PaymentMethod,
		&m.VenmoUsername,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveTransaction inserts the header and its lines in one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26);
	`
	if _, err := tx.Exec(ctx, query, transactionArgs(m)...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction number %s already exists", apperrors.ErrDuplicate, m.TransactionNumber)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err)
	}

	if err := insertLines(ctx, tx, mapping.ToModelTransactionLines(txn.TransactionID, txn.Lines)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateTransaction replaces the header and all lines of an existing transaction.
// The number and owner of a transaction never change.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions SET
			transaction_date = $4, description = $5, transaction_type = $6, status = $7,
			total_debit = $8, total_credit = $9, is_balanced = $10, reference = $11, memo = $12,
			related_invoice_id = $13, client_name = $14, client_email = $15, currency = $16,
			due_date = $17, issue_date = $18, notes = $19, invoice_status = $20, payment_method = $21,
			venmo_username = $22, last_updated_at = $23, last_updated_by = $24
		WHERE transaction_id = $1 AND user_id = $2 AND transaction_number = $3;
	`
	// created_at and created_by are immutable and left out of the SET list.
	args := transactionArgs(m)
	args = append(args[:22], args[24:]...)
	cmdTag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", m.TransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1)`, m.TransactionID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check transaction %s: %w", m.TransactionID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: transaction number and owner cannot change", apperrors.ErrValidation)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1`, m.TransactionID); err != nil {
		return fmt.Errorf("failed to clear lines of transaction %s: %w", m.TransactionID, err)
	}
	if err := insertLines(ctx, tx, mapping.ToModelTransactionLines(txn.TransactionID, txn.Lines)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []models.TransactionLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO transaction_lines (transaction_id, line_no, account_id, account_name, account_number, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query, l.TransactionID, l.LineNo, l.AccountID, l.AccountName, l.AccountNumber, l.Debit, l.Credit, l.Description)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert transaction lines: %w", err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction with its lines.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	txns, err := r.attachLines(ctx, []models.Transaction{m})
	if err != nil {
		return nil, err
	}
	return &txns[0], nil
}

func filterConditions(filter portsrepo.TransactionFilter) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{filter.UserID}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conditions = append(conditions, fmt.Sprintf("transaction_type = $%d", len(args)))
	}
	if filter.InvoiceStatus != "" {
		args = append(args, string(filter.InvoiceStatus))
		conditions = append(conditions, fmt.Sprintf("invoice_status = $%d", len(args)))
	}
	return strings.Join(conditions, " AND "), args
}

func orderClause(order portsrepo.TransactionOrder) string {
	if order == portsrepo.OrderByCreatedDesc {
		return "created_at DESC, transaction_number DESC"
	}
	return "transaction_date DESC, created_at DESC, transaction_number DESC"
}

// ListTransactions retrieves one page of a user's transactions with their lines.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	where, args := filterConditions(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where + ` ORDER BY ` + orderClause(filter.Order)
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.queryTransactions(ctx, query, args...)
}

// CountTransactions counts every transaction matching filter.
func (r *PgxTransactionRepository) CountTransactions(ctx context.Context, filter portsrepo.TransactionFilter) (int, error) {
	where, args := filterConditions(filter)
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions for user %s: %w", filter.UserID, err)
	}
	return count, nil
}

// FindPostedTransactionsByAccount returns every posted transaction of userID touching accountID.
func (r *PgxTransactionRepository) FindPostedTransactionsByAccount(ctx context.Context, userID string, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions t
		WHERE t.user_id = $1 AND t.status = $2
			AND EXISTS (SELECT 1 FROM transaction_lines l WHERE l.transaction_id = t.transaction_id AND l.account_id = $3)
		ORDER BY t.transaction_date ASC, t.created_at ASC;
	`
	return r.queryTransactions(ctx, query, userID, string(domain.StatusPosted), accountID)
}

// FindMaxSequentialNumber returns the highest purely numeric transaction number of userID.
func (r *PgxTransactionRepository) FindMaxSequentialNumber(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT COALESCE(MAX(transaction_number::BIGINT), 0)
		FROM transactions
		WHERE user_id = $1 AND transaction_number ~ '^[0-9]{1,18}$';
	`
	var maxNumber int64
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&maxNumber); err != nil {
		return 0, fmt.Errorf("failed to find max transaction number for user %s: %w", userID, err)
	}
	return maxNumber, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return r.attachLines(ctx, ms)
}

// attachLines loads the lines of every header in one query and keeps header order.
func (r *PgxTransactionRepository) attachLines(ctx context.Context, ms []models.Transaction) ([]domain.Transaction, error) {
	if len(ms) == 0 {
		return []domain.Transaction{}, nil
	}
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.TransactionID
	}

	query := `
		SELECT transaction_id, line_no, account_id, account_name, account_number, debit, credit, description
		FROM transaction_lines
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, line_no;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction lines: %w", err)
	}
	defer rows.Close()

	linesByTxn := make(map[string][]models.TransactionLine, len(ms))
	for rows.Next() {
		var l models.TransactionLine
		if err := rows.Scan(&l.TransactionID, &l.LineNo, &l.AccountID, &l.AccountName, &l.AccountNumber, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, fmt.Errorf("failed to scan transaction line: %w", err)
		}
		linesByTxn[l.TransactionID] = append(linesByTxn[l.TransactionID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction lines: %w", err)
	}

	out := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		out[i] = mapping.ToDomainTransaction(m, linesByTxn[m.TransactionID])
	}
	return out, nil
}
