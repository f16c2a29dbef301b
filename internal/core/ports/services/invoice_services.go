package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/dto"
)

// InvoicePostingSvc turns invoices and payments into ledger entries.
type InvoicePostingSvc interface {
	// CreateInvoice stores an invoice transaction. An empty userID stores it
	// anonymously without ledger lines.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Transaction, error)

	// RecordPayment marks the invoice paid and posts the settling payment.
	RecordPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, userID string) (*domain.Transaction, error)
}

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	// GetInvoice returns an invoice by id regardless of owner (share link view).
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Transaction, error)
	ListInvoices(ctx context.Context, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)
	// RenderInvoicePDF returns the PDF bytes and a download file name.
	RenderInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error)
}

// InvoiceWriterSvc defines update operations for invoices
type InvoiceWriterSvc interface {
	UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Transaction, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoicePostingSvc
	InvoiceReaderSvc
	InvoiceWriterSvc
}
