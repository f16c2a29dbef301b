package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
)

const minParseInputLength = 5

var (
	titleSmallWords = map[string]bool{
		"for": true, "and": true, "or": true, "but": true, "in": true, "on": true, "at": true,
		"to": true, "a": true, "an": true, "the": true, "of": true, "with": true,
	}
	businessSuffixes = map[string]bool{"llc": true, "inc": true, "corp": true, "ltd": true, "co": true}
)

type parseService struct {
	BaseService
	extractor portssvc.StructuredExtractor
	validate  *validator.Validate
}

// NewParseService creates the free-text invoice parser. extractor may be nil
// when no model is configured; parsing then fails with an internal error.
func NewParseService(extractor portssvc.StructuredExtractor, opts ...Option) portssvc.ParseSvc {
	return &parseService{
		BaseService: applyOptions(opts).base(),
		extractor:   extractor,
		validate:    validator.New(),
	}
}

var _ portssvc.ParseSvc = (*parseService)(nil)

// ParseInvoiceText extracts invoice fields from input. A nil result means the
// text did not yield a usable client, amount and description.
func (s *parseService) ParseInvoiceText(ctx context.Context, input string) (*domain.ParsedInvoice, error) {
	input = strings.TrimSpace(input)
	if utf8.RuneCountInString(input) < minParseInputLength {
		return nil, fmt.Errorf("%w: input must be at least %d characters", apperrors.ErrValidation, minParseInputLength)
	}
	if s.extractor == nil {
		return nil, apperrors.NewAppError(500, "AI service not configured", nil)
	}

	parsed, err := s.extractor.ExtractInvoice(ctx, input)
	if err != nil {
		s.LogError(ctx, err, "Invoice extraction failed")
		return nil, fmt.Errorf("invoice extraction failed: %w", err)
	}
	if parsed == nil {
		s.LogInfo(ctx, "No invoice data extracted")
		return nil, nil
	}

	parsed.ClientName = strings.TrimSpace(parsed.ClientName)
	parsed.Description = strings.TrimSpace(parsed.Description)
	if parsed.DueDate != "" {
		if err := s.validate.Var(parsed.DueDate, "datetime=2006-01-02"); err != nil {
			parsed.DueDate = ""
		}
	}
	if err := s.validate.Struct(parsed); err != nil || !parsed.Amount.IsPositive() {
		s.LogInfo(ctx, "Discarding unusable extraction result",
			slog.String("client_name", parsed.ClientName), slog.String("amount", parsed.Amount.String()))
		return nil, nil
	}

	result := &domain.ParsedInvoice{
		ClientName:  capitalizeClientName(parsed.ClientName),
		Amount:      domain.RoundAmount(parsed.Amount),
		Description: capitalizeDescription(parsed.Description),
		DueDate:     parsed.DueDate,
		Confidence:  clampConfidence(parsed.Confidence),
	}
	s.LogInfo(ctx, "Invoice text parsed",
		slog.String("client_name", result.ClientName),
		slog.String("amount", result.Amount.String()),
		slog.Float64("confidence", result.Confidence))
	return result, nil
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// capitalizeClientName title-cases each word and upper-cases business suffixes such as LLC.
func capitalizeClientName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		lower := strings.ToLower(w)
		if businessSuffixes[strings.TrimRight(lower, ".,")] {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = upperFirst(lower)
	}
	return strings.Join(words, " ")
}

// capitalizeDescription title-cases a description, keeping short joining words
// lower case except at the start.
func capitalizeDescription(description string) string {
	words := strings.Fields(strings.ToLower(description))
	for i, w := range words {
		if i == 0 || !titleSmallWords[w] {
			words[i] = upperFirst(w)
		}
	}
	return strings.Join(words, " ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToUpper(string(r)) + s[size:]
}
