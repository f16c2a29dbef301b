package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting classification of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// AccountTypes lists every valid classification, in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five known classifications.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase accounts of this type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account is a single bucket in a user's chart of accounts.
//
// Balance is a materialized projection of posted transaction lines. It is
// only meaningful right after a balance recalculation pass.
type Account struct {
	AccountID     string          `json:"id"`
	UserID        string          `json:"userId"`
	AccountNumber string          `json:"accountNumber"` // unique per user
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"type"`
	Category      string          `json:"category,omitempty"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Description   string          `json:"description,omitempty"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	IsDefault     bool            `json:"isDefault"`
	AuditFields
}

// IsOwnedBy reports whether the account belongs to userID.
func (a Account) IsOwnedBy(userID string) bool {
	return a.UserID == userID
}
