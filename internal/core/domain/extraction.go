package domain

import "github.com/shopspring/decimal"

// ParsedInvoice is the structured data extracted from a free-text invoice description.
type ParsedInvoice struct {
	ClientName  string          `json:"clientName" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required"`
	DueDate     string          `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Confidence  float64         `json:"confidence"`
}
