package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the economic event a transaction records.
type TransactionType string

const (
	TypeInvoice    TransactionType = "invoice"
	TypePayment    TransactionType = "payment"
	TypeExpense    TransactionType = "expense"
	TypeTransfer   TransactionType = "transfer"
	TypeAdjustment TransactionType = "adjustment"
	TypeJournal    TransactionType = "journal"
)

// TransactionStatus controls whether a transaction counts toward balances.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusPosted  TransactionStatus = "posted"
	StatusVoid    TransactionStatus = "void"
)

// CanTransitionTo reports whether a transaction may move from s to next.
// Allowed moves are pending to posted and posted to void.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusPosted
	case StatusPosted:
		return next == StatusVoid
	}
	return false
}

// InvoiceStatus is the customer-facing lifecycle of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// PaymentMethod is how the client is asked to pay an invoice.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCheck        PaymentMethod = "check"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentVenmo        PaymentMethod = "venmo"
	PaymentPaypal       PaymentMethod = "paypal"
	PaymentOther        PaymentMethod = "other"
)

// Supported invoice currencies.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyCAD = "CAD"
)

// AnonymousUserID owns invoices created without an authenticated caller.
const AnonymousUserID = "anonymous"

// AmountScale is the number of decimal places money is stored with.
const AmountScale int32 = 2

// RoundAmount rounds a money amount half away from zero to AmountScale places.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// BalanceTolerance is the largest debit/credit difference still treated as balanced.
var BalanceTolerance = decimal.RequireFromString("0.01")

// TransactionLine is a single debit or credit against one account.
// AccountName and AccountNumber are a snapshot taken when the line was posted.
type TransactionLine struct {
	AccountID     string          `json:"accountId"`
	AccountName   string          `json:"accountName"`
	AccountNumber string          `json:"accountNumber"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
}

// InvoiceDetails holds the fields only populated on invoice transactions.
type InvoiceDetails struct {
	ClientName    string        `json:"clientName,omitempty"`
	ClientEmail   string        `json:"clientEmail,omitempty"`
	Currency      string        `json:"currency,omitempty"`
	DueDate       *time.Time    `json:"dueDate,omitempty"`
	IssueDate     *time.Time    `json:"issueDate,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	InvoiceStatus InvoiceStatus `json:"invoiceStatus,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	VenmoUsername string        `json:"venmoUsername,omitempty"`
}

// Transaction is a dated ledger event made of zero or more lines.
type Transaction struct {
	TransactionID     string            `json:"id"`
	UserID            string            `json:"userId"`
	TransactionNumber string            `json:"transactionNumber"` // unique per user
	Date              time.Time         `json:"date"`
	Description       string            `json:"description"`
	Type              TransactionType   `json:"type"`
	Status            TransactionStatus `json:"status"`
	Lines             []TransactionLine `json:"lines"`
	TotalDebit        decimal.Decimal   `json:"totalDebit"`
	TotalCredit       decimal.Decimal   `json:"totalCredit"`
	IsBalanced        bool              `json:"isBalanced"`
	Reference         string            `json:"reference,omitempty"`
	Memo              string            `json:"memo,omitempty"`
	RelatedInvoiceID  string            `json:"relatedInvoiceId,omitempty"`
	InvoiceDetails
	AuditFields
}

// RecalculateTotals derives TotalDebit, TotalCredit and IsBalanced from Lines.
func (t *Transaction) RecalculateTotals() {
	debit, credit := decimal.Zero, decimal.Zero
	for _, line := range t.Lines {
		debit = debit.Add(line.Debit)
		credit = credit.Add(line.Credit)
	}
	t.TotalDebit = debit
	t.TotalCredit = credit
	t.IsBalanced = IsBalanced(debit, credit)
}

// IsBalanced reports whether debit and credit differ by less than BalanceTolerance.
func IsBalanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThan(BalanceTolerance)
}

// IsInvoice reports whether the transaction is an invoice.
func (t Transaction) IsInvoice() bool {
	return t.Type == TypeInvoice
}

// IsPosted reports whether the transaction counts toward balances.
func (t Transaction) IsPosted() bool {
	return t.Status == StatusPosted
}

// References reports whether any line points at accountID.
func (t Transaction) References(accountID string) bool {
	for _, line := range t.Lines {
		if line.AccountID == accountID {
			return true
		}
	}
	return false
}

// IsOwnedBy reports whether the transaction belongs to userID.
func (t Transaction) IsOwnedBy(userID string) bool {
	return t.UserID == userID
}

// IsAnonymous reports whether the transaction was created without an authenticated caller.
func (t Transaction) IsAnonymous() bool {
	return t.UserID == AnonymousUserID
}
