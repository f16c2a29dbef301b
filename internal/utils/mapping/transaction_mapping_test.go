package mapping

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

func TestTransactionMapping_InvoiceFieldsSurvive(t *testing.T) {
	issue := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)
	d := domain.Transaction{
		TransactionID:     "txn-1",
		UserID:            "user-1",
		TransactionNumber: "TB-1-001",
		Date:              issue,
		Type:              domain.TypeInvoice,
		Status:            domain.StatusPosted,
		Lines: []domain.TransactionLine{
			{AccountID: "ar", Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{AccountID: "sales", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
		InvoiceDetails: domain.InvoiceDetails{
			ClientName:    "Acme",
			DueDate:       &due,
			IssueDate:     &issue,
			InvoiceStatus: domain.InvoiceDraft,
		},
	}

	m := ToModelTransaction(d)
	assert.True(t, m.ClientName.Valid)
	assert.False(t, m.ClientEmail.Valid)
	assert.False(t, m.Reference.Valid)

	lines := ToModelTransactionLines(d.TransactionID, d.Lines)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[1].LineNo)

	back := ToDomainTransaction(m, lines)
	assert.Equal(t, "Acme", back.ClientName)
	assert.Equal(t, "", back.ClientEmail)
	require.NotNil(t, back.DueDate)
	assert.True(t, due.Equal(*back.DueDate))
	assert.Equal(t, "sales", back.Lines[1].AccountID)
}

func TestToDomainTransactionLines_NeverNil(t *testing.T) {
	lines := ToDomainTransactionLines(nil)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}
