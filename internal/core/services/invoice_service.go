package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/utils/numbering"
	"github.com/tallybeam/tallybeam/internal/utils/pagination"
)

const (
	defaultInvoicePageSize = 10
	maxInvoicePageSize     = 100
	defaultPaymentTerms    = 30 * 24 * time.Hour
)

type invoiceService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	chart        portssvc.ChartOfAccountsSvc
	transactions portssvc.TransactionWriterSvc
	balances     portssvc.BalanceSvc
	renderer     portssvc.InvoiceRenderer
	suffix       func() int
}

// NewInvoiceService creates the invoice workflows. renderer may be nil, in
// which case RenderInvoicePDF fails with an internal error.
func NewInvoiceService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	chart portssvc.ChartOfAccountsSvc,
	transactions portssvc.TransactionWriterSvc,
	balances portssvc.BalanceSvc,
	renderer portssvc.InvoiceRenderer,
	opts ...Option,
) portssvc.InvoiceSvcFacade {
	o := applyOptions(opts)
	suffix := o.invoiceSuffix
	if suffix == nil {
		suffix = numbering.RandomSuffix
	}
	return &invoiceService{
		BaseService:  o.base(),
		txnRepo:      txnRepo,
		chart:        chart,
		transactions: transactions,
		balances:     balances,
		renderer:     renderer,
		suffix:       suffix,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// CreateInvoice stores the invoice header and, for an authenticated caller,
// posts it to the ledger as a receivable against sales revenue.
func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Transaction, error) {
	req.Amount = domain.RoundAmount(req.Amount)
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: invoice amount must be greater than zero", apperrors.ErrValidation)
	}

	now := s.Now()
	issueDate := now
	if req.IssueDate != "" {
		d, err := dto.ParseInvoiceDate(req.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		issueDate = d
	}
	dueDate := issueDate.Add(defaultPaymentTerms)
	if req.DueDate != "" {
		d, err := dto.ParseInvoiceDate(req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		dueDate = d
	}

	owner := userID
	if owner == "" {
		owner = domain.AnonymousUserID
	}

	invoice := domain.Transaction{
		TransactionID:     uuid.NewString(),
		UserID:            owner,
		TransactionNumber: numbering.InvoiceNumber(now, s.suffix()),
		Date:              issueDate,
		Description:       req.Description,
		Type:              domain.TypeInvoice,
		Status:            domain.StatusPosted,
		Lines:             []domain.TransactionLine{},
		TotalDebit:        req.Amount,
		TotalCredit:       req.Amount,
		IsBalanced:        true,
		InvoiceDetails: domain.InvoiceDetails{
			ClientName:    req.ClientName,
			ClientEmail:   req.ClientEmail,
			Currency:      valueOr(req.Currency, domain.CurrencyUSD),
			DueDate:       &dueDate,
			IssueDate:     &issueDate,
			Notes:         req.Notes,
			InvoiceStatus: valueOr(req.InvoiceStatus, domain.InvoiceDraft),
			PaymentMethod: valueOr(req.PaymentMethod, domain.PaymentVenmo),
			VenmoUsername: req.VenmoUsername,
		},
		AuditFields: domain.NewAuditFields(owner, now),
	}

	if err := s.txnRepo.SaveTransaction(ctx, invoice); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save invoice in repository", slog.String("invoice_number", invoice.TransactionNumber))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoice.TransactionID),
		slog.String("invoice_number", invoice.TransactionNumber),
		slog.Bool("anonymous", invoice.IsAnonymous()))

	if invoice.IsAnonymous() {
		return &invoice, nil
	}

	if err := s.postInvoiceToLedger(ctx, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// postInvoiceToLedger adds the receivable and revenue lines to a stored invoice.
func (s *invoiceService) postInvoiceToLedger(ctx context.Context, invoice *domain.Transaction) error {
	accounts, err := s.chart.ResolveWellKnownAccounts(ctx, invoice.UserID, domain.AccountsReceivable, domain.SalesRevenue)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve accounts for invoice posting", slog.String("invoice_id", invoice.TransactionID))
		return err
	}
	amount := invoice.TotalDebit
	ar := accounts[domain.AccountsReceivable]
	sales := accounts[domain.SalesRevenue]

	invoice.Lines = []domain.TransactionLine{
		{
			AccountID:     ar.AccountID,
			AccountName:   ar.Name,
			AccountNumber: ar.AccountNumber,
			Debit:         amount,
			Credit:        decimal.Zero,
			Description:   "Invoice #" + invoice.TransactionNumber,
		},
		{
			AccountID:     sales.AccountID,
			AccountName:   sales.Name,
			AccountNumber: sales.AccountNumber,
			Debit:         decimal.Zero,
			Credit:        amount,
			Description:   "Revenue from " + invoice.ClientName,
		},
	}
	refreshTotals(invoice)

	if err := s.txnRepo.UpdateTransaction(ctx, *invoice); err != nil {
		s.LogError(ctx, err, "Failed to store invoice ledger lines", slog.String("invoice_id", invoice.TransactionID))
		return fmt.Errorf("failed to post invoice to ledger: %w", err)
	}
	if err := s.balances.UpdateAccountBalances(ctx, invoice.UserID); err != nil {
		return fmt.Errorf("failed to recalculate balances: %w", err)
	}
	s.LogInfo(ctx, "Invoice posted to ledger",
		slog.String("invoice_id", invoice.TransactionID), slog.String("amount", amount.String()))
	return nil
}

// RecordPayment marks an invoice paid and posts cash received against the receivable.
func (s *invoiceService) RecordPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, userID string) (*domain.Transaction, error) {
	amount = domain.RoundAmount(amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be greater than zero", apperrors.ErrValidation)
	}

	invoice, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.IsOwnedBy(userID) {
		return nil, apperrors.ErrInvoiceNotFound
	}

	invoice.InvoiceStatus = domain.InvoicePaid
	invoice.Touch(userID, s.Now())
	refreshTotals(invoice)
	if err := s.txnRepo.UpdateTransaction(ctx, *invoice); err != nil {
		s.LogError(ctx, err, "Failed to mark invoice paid", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	accounts, err := s.chart.ResolveWellKnownAccounts(ctx, userID, domain.Checking, domain.AccountsReceivable)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve accounts for payment", slog.String("invoice_id", invoiceID))
		return nil, err
	}

	label := "Payment for Invoice #" + invoice.TransactionNumber
	payment, err := s.transactions.CreateTransaction(ctx, userID, dto.CreateTransactionRequest{
		Description: label,
		Type:        domain.TypePayment,
		Status:      domain.StatusPosted,
		Lines: []dto.TransactionLineRequest{
			{
				AccountID:   accounts[domain.Checking].AccountID,
				Debit:       amount,
				Credit:      decimal.Zero,
				Description: "Payment from " + invoice.ClientName,
			},
			{
				AccountID:   accounts[domain.AccountsReceivable].AccountID,
				Debit:       decimal.Zero,
				Credit:      amount,
				Description: label,
			},
		},
		Reference:        invoice.TransactionNumber,
		RelatedInvoiceID: invoice.TransactionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment transaction: %w", err)
	}

	if err := s.balances.UpdateAccountBalances(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to recalculate balances: %w", err)
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("invoice_id", invoiceID),
		slog.String("payment_id", payment.TransactionID),
		slog.String("amount", amount.String()))
	return payment, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Transaction, error) {
	return s.loadInvoice(ctx, invoiceID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	w := pagination.Window{Limit: params.Limit, Offset: params.Skip}.Normalize(defaultInvoicePageSize, maxInvoicePageSize)
	filter := portsrepo.TransactionFilter{
		UserID:        userID,
		Type:          domain.TypeInvoice,
		InvoiceStatus: domain.InvoiceStatus(params.Status),
		Order:         portsrepo.OrderByCreatedDesc,
		Limit:         w.Limit,
		Offset:        w.Offset,
	}

	invoices, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	total, err := s.txnRepo.CountTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to count invoices", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	return &dto.ListInvoicesResponse{
		Invoices: dto.ToTransactionResponses(invoices),
		Pagination: dto.PaginationInfo{
			Total:   total,
			Limit:   w.Limit,
			Skip:    w.Offset,
			HasMore: pagination.HasMore(total, w),
		},
	}, nil
}

// UpdateInvoice applies a partial update. Anonymous invoices may be edited by
// anyone holding the link; other invoices only by their owner.
func (s *invoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Transaction, error) {
	invoice, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !invoice.IsAnonymous() && !invoice.IsOwnedBy(userID) {
		return nil, fmt.Errorf("%w: invoice belongs to another user", apperrors.ErrForbidden)
	}

	if err := applyInvoiceUpdate(invoice, req); err != nil {
		return nil, err
	}

	if req.Amount != nil {
		rounded := domain.RoundAmount(*req.Amount)
		req.Amount = &rounded
	}
	amountChanged := req.Amount != nil && !req.Amount.Equal(invoice.TotalDebit)
	if amountChanged {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: invoice amount must be greater than zero", apperrors.ErrValidation)
		}
		if len(invoice.Lines) == 0 {
			invoice.TotalDebit = *req.Amount
			invoice.TotalCredit = *req.Amount
			invoice.IsBalanced = true
		} else {
			for i := range invoice.Lines {
				if invoice.Lines[i].Debit.IsPositive() {
					invoice.Lines[i].Debit = *req.Amount
				}
				if invoice.Lines[i].Credit.IsPositive() {
					invoice.Lines[i].Credit = *req.Amount
				}
			}
		}
	}

	actor := userID
	if actor == "" {
		actor = domain.AnonymousUserID
	}
	invoice.Touch(actor, s.Now())
	refreshTotals(invoice)

	if err := s.txnRepo.UpdateTransaction(ctx, *invoice); err != nil {
		s.LogError(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	if amountChanged && len(invoice.Lines) > 0 {
		if err := s.balances.UpdateAccountBalances(ctx, invoice.UserID); err != nil {
			return nil, fmt.Errorf("failed to recalculate balances: %w", err)
		}
	}

	s.LogInfo(ctx, "Invoice updated", slog.String("invoice_id", invoiceID), slog.Bool("amount_changed", amountChanged))
	return invoice, nil
}

func applyInvoiceUpdate(invoice *domain.Transaction, req dto.UpdateInvoiceRequest) error {
	if req.ClientName != nil {
		invoice.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		invoice.ClientEmail = *req.ClientEmail
	}
	if req.Description != nil {
		invoice.Description = *req.Description
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.Currency != nil {
		invoice.Currency = *req.Currency
	}
	if req.InvoiceStatus != nil {
		invoice.InvoiceStatus = *req.InvoiceStatus
	}
	if req.PaymentMethod != nil {
		invoice.PaymentMethod = *req.PaymentMethod
	}
	if req.VenmoUsername != nil {
		invoice.VenmoUsername = *req.VenmoUsername
	}
	if req.IssueDate != nil {
		d, err := dto.ParseInvoiceDate(*req.IssueDate)
		if err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		invoice.IssueDate = &d
		invoice.Date = d
	}
	if req.DueDate != nil {
		d, err := dto.ParseInvoiceDate(*req.DueDate)
		if err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		invoice.DueDate = &d
	}
	return nil
}

// RenderInvoicePDF renders an invoice and names the file after the client and invoice number.
func (s *invoiceService) RenderInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	invoice, err := s.loadInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if s.renderer == nil {
		return nil, "", apperrors.NewAppError(500, "invoice rendering is not configured", nil)
	}
	pdf, err := s.renderer.RenderInvoice(ctx, *invoice)
	if err != nil {
		s.LogError(ctx, err, "Failed to render invoice PDF", slog.String("invoice_id", invoiceID))
		return nil, "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return pdf, InvoiceFileName(*invoice), nil
}

// InvoiceFileName returns <client>-<number>.pdf, or <number>-invoice.pdf when
// the invoice has no client name.
func InvoiceFileName(invoice domain.Transaction) string {
	number := slugify(invoice.TransactionNumber)
	client := slugify(invoice.ClientName)
	if client == "" {
		return number + "-invoice.pdf"
	}
	return client + "-" + number + ".pdf"
}

var (
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	return slugDashes.ReplaceAllString(s, "-")
}

// loadInvoice fetches a transaction and hides anything that is not an invoice.
func (s *invoiceService) loadInvoice(ctx context.Context, invoiceID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		s.LogError(ctx, err, "Failed to find invoice in repository", slog.String("invoice_id", invoiceID))
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if !txn.IsInvoice() {
		return nil, apperrors.ErrInvoiceNotFound
	}
	return txn, nil
}

func valueOr[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}
