package services

import (
	"context"

	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// StructuredExtractor turns free text into invoice fields. A nil result with a
// nil error means the text did not describe an invoice.
type StructuredExtractor interface {
	ExtractInvoice(ctx context.Context, input string) (*domain.ParsedInvoice, error)
}

// InvoiceRenderer renders an invoice transaction as a PDF document.
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, invoice domain.Transaction) ([]byte, error)
}

// LedgerExporter writes a user's chart and journal into a spreadsheet.
type LedgerExporter interface {
	ExportLedger(ctx context.Context, accounts []domain.Account, transactions []domain.Transaction) ([]byte, error)
}

// ParseSvc extracts structured invoice data from free text.
type ParseSvc interface {
	ParseInvoiceText(ctx context.Context, input string) (*domain.ParsedInvoice, error)
}

// ExportSvc produces a downloadable copy of a user's ledger.
type ExportSvc interface {
	ExportLedger(ctx context.Context, userID string) ([]byte, error)
}
