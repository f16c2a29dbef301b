package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/middleware"
	"github.com/tallybeam/tallybeam/internal/utils"
)

// invoiceHandler serves the invoice endpoints, several of which are reachable without signing in.
type invoiceHandler struct {
	invoices  portssvc.InvoiceSvcFacade
	analytics *utils.PosthogClientWrapper
}

// RegisterInvoiceRoutes registers /invoices. Listing and payments require a
// caller; creation and updates accept one; reads are public share links.
func RegisterInvoiceRoutes(rg *gin.RouterGroup, invoices portssvc.InvoiceSvcFacade, mw RouteMiddleware, analytics *utils.PosthogClientWrapper) {
	h := &invoiceHandler{invoices: invoices, analytics: analytics}

	group := rg.Group("/invoices")
	{
		group.POST("", chain(mw.RateLimit, mw.OptionalAuth, h.createInvoice)...)
		group.GET("", chain(mw.RequireAuth, h.listInvoices)...)
		group.GET("/:id", h.getInvoice)
		group.PUT("/:id", chain(mw.OptionalAuth, h.updateInvoice)...)
		group.GET("/:id/pdf", h.downloadInvoicePDF)
		group.POST("/:id/payments", chain(mw.RequireAuth, h.recordPayment)...)
	}
}

// createInvoice godoc
// @Summary Create an invoice
// @Description Stores an invoice. Signed-in callers also get the receivable posted to their ledger.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.CreateInvoiceResponse
// @Failure 400 {object} map[string]string "Missing client name or description, or a bad amount"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)

	invoice, err := h.invoices.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create invoice")
		return
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.TransactionID), slog.String("invoice_number", invoice.TransactionNumber))
	middleware.PosthogEvent(c, h.analytics, "invoice_created", map[string]any{
		"invoice_id": invoice.TransactionID,
		"currency":   invoice.Currency,
		"anonymous":  invoice.IsAnonymous(),
	})
	c.JSON(http.StatusCreated, dto.ToCreateInvoiceResponse(invoice))
}

// listInvoices godoc
// @Summary List the caller's invoices
// @Tags invoices
// @Produce  json
// @Param   status query string false "Invoice status" Enums(draft, sent, paid, overdue, cancelled)
// @Param   limit query int false "Page size (default 10, max 100)"
// @Param   skip query int false "Invoices to skip"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	resp, err := h.invoices.ListInvoices(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceEnvelope
// @Failure 404 {object} map[string]string "Invoice not found"
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoice, err := h.invoices.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, dto.InvoiceEnvelope{Success: true, Invoice: dto.ToTransactionResponse(invoice)})
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Partially updates an invoice. Only the owner may update it, unless it was created anonymously.
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   invoice body dto.UpdateInvoiceRequest true "Fields to change"
// @Success 200 {object} dto.InvoiceEnvelope
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Router /invoices/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)

	invoice, err := h.invoices.UpdateInvoice(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, dto.InvoiceEnvelope{Success: true, Invoice: dto.ToTransactionResponse(invoice)})
}

// downloadInvoicePDF godoc
// @Summary Download an invoice as PDF
// @Tags invoices
// @Produce application/pdf
// @Param   id path string true "Invoice ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Invoice not found"
// @Router /invoices/{id}/pdf [get]
func (h *invoiceHandler) downloadInvoicePDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	data, filename, err := h.invoices.RenderInvoicePDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to generate PDF")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Length", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/pdf", data)
}

// recordPayment godoc
// @Summary Record a payment against an invoice
// @Description Marks the invoice paid and posts a Checking debit / Accounts Receivable credit
// @Tags invoices
// @Accept  json
// @Produce  json
// @Param   id path string true "Invoice ID"
// @Param   payment body dto.RecordPaymentRequest true "Amount received"
// @Success 201 {object} dto.RecordPaymentResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /invoices/{id}/payments [post]
func (h *invoiceHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	payment, err := h.invoices.RecordPayment(c.Request.Context(), c.Param("id"), req.Amount, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	middleware.PosthogEvent(c, h.analytics, "invoice_paid", map[string]any{
		"invoice_id": c.Param("id"),
		"payment_id": payment.TransactionID,
	})
	c.JSON(http.StatusCreated, dto.RecordPaymentResponse{Success: true, Payment: dto.ToTransactionResponse(payment)})
}
