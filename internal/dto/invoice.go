package dto

import (
	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// CreateInvoiceRequest is the invoice form submitted by the web client.
// Dates are YYYY-MM-DD (stored at 09:00 UTC) or RFC 3339 timestamps.
type CreateInvoiceRequest struct {
	ClientName    string               `json:"clientName" binding:"required"`
	ClientEmail   string               `json:"clientEmail" binding:"omitempty,email"`
	Amount        decimal.Decimal      `json:"amount"`
	Description   string               `json:"description" binding:"required"`
	IssueDate     string               `json:"issueDate" binding:"omitempty,calendar_date"`
	DueDate       string               `json:"dueDate" binding:"omitempty,calendar_date"`
	Currency      string               `json:"currency" binding:"omitempty,oneof=USD EUR GBP CAD"`
	Notes         string               `json:"notes"`
	InvoiceStatus domain.InvoiceStatus `json:"invoiceStatus" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=cash check bank_transfer venmo paypal other"`
	VenmoUsername string               `json:"venmoUsername"`
}

// UpdateInvoiceRequest is a partial update; nil fields are left untouched.
type UpdateInvoiceRequest struct {
	ClientName    *string               `json:"clientName" binding:"omitempty,min=1"`
	ClientEmail   *string               `json:"clientEmail" binding:"omitempty,email"`
	Amount        *decimal.Decimal      `json:"amount"`
	Description   *string               `json:"description" binding:"omitempty,min=1"`
	IssueDate     *string               `json:"issueDate" binding:"omitempty,calendar_date"`
	DueDate       *string               `json:"dueDate" binding:"omitempty,calendar_date"`
	Currency      *string               `json:"currency" binding:"omitempty,oneof=USD EUR GBP CAD"`
	Notes         *string               `json:"notes"`
	InvoiceStatus *domain.InvoiceStatus `json:"invoiceStatus" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=cash check bank_transfer venmo paypal other"`
	VenmoUsername *string               `json:"venmoUsername"`
}

// ListInvoicesParams holds the query filters of the invoice listing.
type ListInvoicesParams struct {
	Status string `form:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Skip   int    `form:"skip" binding:"omitempty,min=0"`
}

// PaginationInfo describes the window returned by a list endpoint.
type PaginationInfo struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Skip    int  `json:"skip"`
	HasMore bool `json:"hasMore"`
}

// ListInvoicesResponse is the invoice listing envelope.
type ListInvoicesResponse struct {
	Invoices   []TransactionResponse `json:"invoices"`
	Pagination PaginationInfo        `json:"pagination"`
}

// CreateInvoiceResponse is returned with 201 after an invoice is stored.
// _id is kept for clients written against the document-store API.
type CreateInvoiceResponse struct {
	Success       bool                `json:"success"`
	InvoiceNumber string              `json:"invoiceNumber"`
	LegacyID      string              `json:"_id"`
	ID            string              `json:"id"`
	Invoice       TransactionResponse `json:"invoice"`
}

// RecordPaymentRequest records money received against an invoice.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// RecordPaymentResponse is returned after a payment is posted.
type RecordPaymentResponse struct {
	Success bool                `json:"success"`
	Payment TransactionResponse `json:"payment"`
}

// ToCreateInvoiceResponse builds the creation envelope.
func ToCreateInvoiceResponse(txn *domain.Transaction) CreateInvoiceResponse {
	return CreateInvoiceResponse{
		Success:       true,
		InvoiceNumber: txn.TransactionNumber,
		LegacyID:      txn.TransactionID,
		ID:            txn.TransactionID,
		Invoice:       ToTransactionResponse(txn),
	}
}

// InvoiceEnvelope is the {success, invoice} body of the single-invoice endpoints.
type InvoiceEnvelope struct {
	Success bool                `json:"success"`
	Invoice TransactionResponse `json:"invoice"`
}
