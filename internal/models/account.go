package models

import (
	"github.com/shopspring/decimal"
)

// AccountType is the stored classification of an account.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID     string          `db:"account_id"`
	UserID        string          `db:"user_id"`
	AccountNumber string          `db:"account_number"`
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	Category      string          `db:"category"`
	Subcategory   string          `db:"subcategory"`
	Description   string          `db:"description"`
	Balance       decimal.Decimal `db:"balance"`
	IsActive      bool            `db:"is_active"`
	IsDefault     bool            `db:"is_default"`
	AuditFields
}
