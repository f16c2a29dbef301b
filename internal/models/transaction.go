package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. Invoice columns are NULL
// for every other transaction type.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	UserID            string          `db:"user_id"`
	TransactionNumber string          `db:"transaction_number"`
	TransactionDate   sql.NullTime    `db:"transaction_date"`
	Description       string          `db:"description"`
	TransactionType   string          `db:"transaction_type"`
	Status            string          `db:"status"`
	TotalDebit        decimal.Decimal `db:"total_debit"`
	TotalCredit       decimal.Decimal `db:"total_credit"`
	IsBalanced        bool            `db:"is_balanced"`
	Reference         sql.NullString  `db:"reference"`
	Memo              sql.NullString  `db:"memo"`
	RelatedInvoiceID  sql.NullString  `db:"related_invoice_id"`
	ClientName        sql.NullString  `db:"client_name"`
	ClientEmail       sql.NullString  `db:"client_email"`
	Currency          sql.NullString  `db:"currency"`
	DueDate           sql.NullTime    `db:"due_date"`
	IssueDate         sql.NullTime    `db:"issue_date"`
	Notes             sql.NullString  `db:"notes"`
	InvoiceStatus     sql.NullString  `db:"invoice_status"`
	PaymentMethod     sql.NullString  `db:"payment_method"`
	VenmoUsername     sql.NullString  `db:"venmo_username"`
	AuditFields
}

// TransactionLine is a row of the transaction_lines table.
type TransactionLine struct {
	TransactionID string          `db:"transaction_id"`
	LineNo        int             `db:"line_no"`
	AccountID     string          `db:"account_id"`
	AccountName   string          `db:"account_name"`
	AccountNumber string          `db:"account_number"`
	Debit         decimal.Decimal `db:"debit"`
	Credit        decimal.Decimal `db:"credit"`
	Description   string          `db:"description"`
}
