// Package pdf renders invoices as single-page PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
)

const dateLayout = "January 2, 2006"

var currencySymbols = map[string]string{
	domain.CurrencyUSD: "$",
	domain.CurrencyEUR: "EUR ",
	domain.CurrencyGBP: "GBP ",
	domain.CurrencyCAD: "CA$",
}

// InvoiceRenderer lays out an invoice with fpdf's core fonts.
type InvoiceRenderer struct {
	pageSize string
}

var _ portssvc.InvoiceRenderer = (*InvoiceRenderer)(nil)

// NewInvoiceRenderer returns a renderer producing A4 pages.
func NewInvoiceRenderer() *InvoiceRenderer {
	return &InvoiceRenderer{pageSize: "A4"}
}

// FormatMoney prints amount with two decimals and the currency's symbol.
func FormatMoney(amount decimal.Decimal, currency string) string {
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency + " "
	}
	return symbol + amount.StringFixed(2)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format(dateLayout)
}

// RenderInvoice draws the header, bill-to block, single item row, totals,
// payment instructions and notes.
func (r *InvoiceRenderer) RenderInvoice(ctx context.Context, invoice domain.Transaction) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currency := invoice.Currency
	if currency == "" {
		currency = domain.CurrencyUSD
	}
	total := FormatMoney(invoice.TotalDebit, currency)

	doc := fpdf.New("P", "mm", r.pageSize, "")
	doc.SetTitle("Invoice "+invoice.TransactionNumber, true)
	doc.SetMargins(12, 12, 12)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")
	width, _ := doc.GetPageSize()
	contentWidth := width - 24

	// Header
	doc.SetTextColor(17, 24, 39)
	doc.SetFont("Helvetica", "B", 24)
	doc.CellFormat(contentWidth/2, 10, "Invoice", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(75, 85, 99)
	doc.CellFormat(contentWidth/2, 10, "Invoice Date: "+formatDate(invoice.IssueDate), "", 1, "R", false, 0, "")
	doc.CellFormat(contentWidth, 6, "#"+invoice.TransactionNumber, "", 1, "L", false, 0, "")
	doc.Ln(10)

	// Bill to and due date
	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(55, 65, 81)
	doc.CellFormat(contentWidth/2, 6, "Bill To:", "", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(75, 85, 99)
	doc.CellFormat(contentWidth/2, 6, "Due Date: "+formatDate(invoice.DueDate), "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(17, 24, 39)
	doc.CellFormat(contentWidth/2, 7, tr(invoice.ClientName), "", 1, "L", false, 0, "")
	if invoice.ClientEmail != "" {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(contentWidth/2, 6, tr(invoice.ClientEmail), "", 1, "L", false, 0, "")
	}
	doc.Ln(10)

	// Item table
	descWidth := contentWidth * 0.7
	amountWidth := contentWidth - descWidth
	doc.SetFillColor(249, 250, 251)
	doc.SetFont("Helvetica", "B", 9)
	doc.SetTextColor(55, 65, 81)
	doc.CellFormat(descWidth, 9, "DESCRIPTION", "", 0, "L", true, 0, "")
	doc.CellFormat(amountWidth, 9, "AMOUNT", "", 1, "R", true, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(17, 24, 39)
	doc.CellFormat(descWidth, 12, tr(invoice.Description), "B", 0, "L", false, 0, "")
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(amountWidth, 12, tr(total), "B", 1, "R", false, 0, "")
	doc.Ln(6)

	// Totals
	labelX := 12 + contentWidth - 60
	doc.SetX(labelX)
	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(75, 85, 99)
	doc.CellFormat(30, 7, "Subtotal:", "T", 0, "L", false, 0, "")
	doc.CellFormat(30, 7, tr(total), "T", 1, "R", false, 0, "")
	doc.SetX(labelX)
	doc.SetFont("Helvetica", "B", 12)
	doc.SetTextColor(17, 24, 39)
	doc.CellFormat(30, 9, "Total:", "T", 0, "L", false, 0, "")
	doc.CellFormat(30, 9, tr(total), "T", 1, "R", false, 0, "")
	doc.Ln(10)

	if invoice.PaymentMethod == domain.PaymentVenmo && invoice.VenmoUsername != "" {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(contentWidth, 7, "Payment Instructions", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(contentWidth, 6, "Please send payment via Venmo:", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(contentWidth, 6, tr("Venmo @"+invoice.VenmoUsername), "", 1, "L", false, 0, "")
		doc.Ln(6)
	}

	if invoice.Notes != "" {
		doc.SetFont("Helvetica", "B", 11)
		doc.CellFormat(contentWidth, 7, "Notes", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(contentWidth, 5, tr(invoice.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
