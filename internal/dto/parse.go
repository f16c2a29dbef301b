package dto

import "github.com/tallybeam/tallybeam/internal/core/domain"

// ParseRequest carries the free-text invoice description.
type ParseRequest struct {
	Input string `json:"input" binding:"required"`
}

// ParseResponse wraps the extraction result. ParsedData is null when
// nothing usable could be extracted.
type ParseResponse struct {
	ParsedData *domain.ParsedInvoice `json:"parsedData"`
}
