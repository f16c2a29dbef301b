package mapping

import (
	"database/sql"
	"time"

	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/models"
)

// ToModelTransaction converts a domain Transaction header to a model Transaction.
// Lines are mapped separately with ToModelTransactionLines.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:     d.TransactionID,
		UserID:            d.UserID,
		TransactionNumber: d.TransactionNumber,
		TransactionDate:   toNullTime(&d.Date),
		Description:       d.Description,
		TransactionType:   string(d.Type),
		Status:            string(d.Status),
		TotalDebit:        d.TotalDebit,
		TotalCredit:       d.TotalCredit,
		IsBalanced:        d.IsBalanced,
		Reference:         toNullString(d.Reference),
		Memo:              toNullString(d.Memo),
		RelatedInvoiceID:  toNullString(d.RelatedInvoiceID),
		ClientName:        toNullString(d.ClientName),
		ClientEmail:       toNullString(d.ClientEmail),
		Currency:          toNullString(d.Currency),
		DueDate:           toNullTime(d.DueDate),
		IssueDate:         toNullTime(d.IssueDate),
		Notes:             toNullString(d.Notes),
		InvoiceStatus:     toNullString(string(d.InvoiceStatus)),
		PaymentMethod:     toNullString(string(d.PaymentMethod)),
		VenmoUsername:     toNullString(d.VenmoUsername),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction and its lines to a domain Transaction.
// The lines must already be in line order.
func ToDomainTransaction(m models.Transaction, lines []models.TransactionLine) domain.Transaction {
	d := domain.Transaction{
		TransactionID:     m.TransactionID,
		UserID:            m.UserID,
		TransactionNumber: m.TransactionNumber,
		Description:       m.Description,
		Type:              domain.TransactionType(m.TransactionType),
		Status:            domain.TransactionStatus(m.Status),
		Lines:             ToDomainTransactionLines(lines),
		TotalDebit:        m.TotalDebit,
		TotalCredit:       m.TotalCredit,
		IsBalanced:        m.IsBalanced,
		Reference:         m.Reference.String,
		Memo:              m.Memo.String,
		RelatedInvoiceID:  m.RelatedInvoiceID.String,
		InvoiceDetails: domain.InvoiceDetails{
			ClientName:    m.ClientName.String,
			ClientEmail:   m.ClientEmail.String,
			Currency:      m.Currency.String,
			DueDate:       fromNullTime(m.DueDate),
			IssueDate:     fromNullTime(m.IssueDate),
			Notes:         m.Notes.String,
			InvoiceStatus: domain.InvoiceStatus(m.InvoiceStatus.String),
			PaymentMethod: domain.PaymentMethod(m.PaymentMethod.String),
			VenmoUsername: m.VenmoUsername.String,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.TransactionDate.Valid {
		d.Date = m.TransactionDate.Time.UTC()
	}
	return d
}

// ToModelTransactionLines numbers the lines of transactionID from zero.
func ToModelTransactionLines(transactionID string, ds []domain.TransactionLine) []models.TransactionLine {
	ms := make([]models.TransactionLine, len(ds))
	for i, d := range ds {
		ms[i] = models.TransactionLine{
			TransactionID: transactionID,
			LineNo:        i,
			AccountID:     d.AccountID,
			AccountName:   d.AccountName,
			AccountNumber: d.AccountNumber,
			Debit:         d.Debit,
			Credit:        d.Credit,
			Description:   d.Description,
		}
	}
	return ms
}

// ToDomainTransactionLines never returns nil so that a transaction without
// lines serializes as an empty array.
func ToDomainTransactionLines(ms []models.TransactionLine) []domain.TransactionLine {
	ds := make([]domain.TransactionLine, len(ms))
	for i, m := range ms {
		ds[i] = domain.TransactionLine{
			AccountID:     m.AccountID,
			AccountName:   m.AccountName,
			AccountNumber: m.AccountNumber,
			Debit:         m.Debit,
			Credit:        m.Credit,
			Description:   m.Description,
		}
	}
	return ds
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
