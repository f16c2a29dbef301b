package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current time in UTC, or the injected clock's time.
func (s *BaseService) Now() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

type serviceOptions struct {
	clock         func() time.Time
	invoiceSuffix func() int
}

// Option configures the services built by this package.
type Option func(*serviceOptions)

// WithClock replaces the time source used for timestamps and invoice numbers.
func WithClock(clock func() time.Time) Option {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

// WithInvoiceNumberSuffix replaces the random three digit suffix of invoice numbers.
func WithInvoiceNumberSuffix(suffix func() int) Option {
	return func(o *serviceOptions) {
		o.invoiceSuffix = suffix
	}
}

func applyOptions(opts []Option) serviceOptions {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o serviceOptions) base() BaseService {
	return BaseService{clock: o.clock}
}

// refreshTotals recomputes the derived totals before a save. Invoices
// without ledger lines keep their stated totals: they were never posted to
// the ledger, and deriving from an empty line list would zero them.
func refreshTotals(txn *domain.Transaction) {
	if txn.IsInvoice() && len(txn.Lines) == 0 {
		return
	}
	txn.RecalculateTotals()
}
