package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// TransactionLineRequest is one debit or credit of a new transaction.
// The account name and number are looked up, not supplied.
type TransactionLineRequest struct {
	AccountID   string          `json:"accountId" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description" binding:"required"`
}

// CreateTransactionRequest is the partial transaction accepted by the generic
// accounting create operation. Number, totals and balance flag are derived.
type CreateTransactionRequest struct {
	Date             *time.Time               `json:"date"`
	Description      string                   `json:"description" binding:"required"`
	Type             domain.TransactionType   `json:"type" binding:"required,oneof=invoice payment expense transfer adjustment journal"`
	Status           domain.TransactionStatus `json:"status" binding:"omitempty,oneof=pending posted"`
	Lines            []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
	Reference        string                   `json:"reference"`
	Memo             string                   `json:"memo"`
	RelatedInvoiceID string                   `json:"relatedInvoiceId"`
}

// ListTransactionsParams holds limit/offset paging for the transaction listing.
type ListTransactionsParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// UpdateTransactionStatusRequest moves a transaction along its status lifecycle.
type UpdateTransactionStatusRequest struct {
	Status domain.TransactionStatus `json:"status" binding:"required,oneof=posted void"`
}

// TransactionLineResponse mirrors domain.TransactionLine.
type TransactionLineResponse struct {
	AccountID     string          `json:"accountId"`
	AccountName   string          `json:"accountName"`
	AccountNumber string          `json:"accountNumber"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID     string                    `json:"id"`
	TransactionNumber string                    `json:"transactionNumber"`
	Date              time.Time                 `json:"date"`
	Description       string                    `json:"description"`
	Type              domain.TransactionType    `json:"type"`
	Status            domain.TransactionStatus  `json:"status"`
	Lines             []TransactionLineResponse `json:"lines"`
	TotalDebit        decimal.Decimal           `json:"totalDebit"`
	TotalCredit       decimal.Decimal           `json:"totalCredit"`
	IsBalanced        bool                      `json:"isBalanced"`
	Reference         string                    `json:"reference,omitempty"`
	Memo              string                    `json:"memo,omitempty"`
	RelatedInvoiceID  string                    `json:"relatedInvoiceId,omitempty"`
	domain.InvoiceDetails
	CreatedAt time.Time `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	lines := make([]TransactionLineResponse, 0, len(txn.Lines))
	for _, l := range txn.Lines {
		lines = append(lines, TransactionLineResponse(l))
	}
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		TransactionNumber: txn.TransactionNumber,
		Date:              txn.Date,
		Description:       txn.Description,
		Type:              txn.Type,
		Status:            txn.Status,
		Lines:             lines,
		TotalDebit:        txn.TotalDebit,
		TotalCredit:       txn.TotalCredit,
		IsBalanced:        txn.IsBalanced,
		Reference:         txn.Reference,
		Memo:              txn.Memo,
		RelatedInvoiceID:  txn.RelatedInvoiceID,
		InvoiceDetails:    txn.InvoiceDetails,
		CreatedAt:         txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		resp = append(resp, ToTransactionResponse(&txns[i]))
	}
	return resp
}
