// Package export writes a user's ledger to an XLSX workbook.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tallybeam/tallybeam/internal/core/domain"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

const (
	AccountsSheet     = "Accounts"
	TransactionsSheet = "Transactions"
)

var (
	accountHeaders     = []any{"Number", "Name", "Type", "Category", "Subcategory", "Balance", "Active"}
	transactionHeaders = []any{"Date", "Number", "Description", "Type", "Status", "Account Number", "Account Name", "Debit", "Credit", "Reference"}
)

// XLSXExporter produces a workbook with an Accounts sheet and a Transactions
// sheet holding one row per line.
type XLSXExporter struct{}

var _ portssvc.LedgerExporter = (*XLSXExporter)(nil)

func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) ExportLedger(ctx context.Context, accounts []domain.Account, transactions []domain.Transaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AccountsSheet); err != nil {
		return nil, fmt.Errorf("failed to name accounts sheet: %w", err)
	}
	if err := writeRow(f, AccountsSheet, 1, accountHeaders); err != nil {
		return nil, err
	}
	for i, a := range accounts {
		row := []any{a.AccountNumber, a.Name, string(a.AccountType), a.Category, a.Subcategory, a.Balance.InexactFloat64(), a.IsActive}
		if err := writeRow(f, AccountsSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(TransactionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create transactions sheet: %w", err)
	}
	if err := writeRow(f, TransactionsSheet, 1, transactionHeaders); err != nil {
		return nil, err
	}
	rowNum := 2
	for _, t := range transactions {
		date := t.Date.UTC().Format("2006-01-02")
		if len(t.Lines) == 0 {
			// Header-only invoices still show up with their totals.
			row := []any{date, t.TransactionNumber, t.Description, string(t.Type), string(t.Status), "", "", t.TotalDebit.InexactFloat64(), t.TotalCredit.InexactFloat64(), t.Reference}
			if err := writeRow(f, TransactionsSheet, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
			continue
		}
		for _, l := range t.Lines {
			row := []any{date, t.TransactionNumber, t.Description, string(t.Type), string(t.Status), l.AccountNumber, l.AccountName, l.Debit.InexactFloat64(), l.Credit.InexactFloat64(), t.Reference}
			if err := writeRow(f, TransactionsSheet, rowNum, row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	_ = f.SetColWidth(AccountsSheet, "B", "B", 28)
	_ = f.SetColWidth(TransactionsSheet, "C", "C", 36)
	_ = f.SetColWidth(TransactionsSheet, "G", "G", 28)
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
