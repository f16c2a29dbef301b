package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/middleware"
)

// accountingHandler serves the chart of accounts and the generic transaction endpoints.
type accountingHandler struct {
	chart        portssvc.ChartOfAccountsSvc
	accounts     portssvc.AccountSvcFacade
	balances     portssvc.BalanceSvc
	transactions portssvc.TransactionSvcFacade
	export       portssvc.ExportSvc
}

// RegisterAccountingRoutes registers the /accounting routes. rg must already require authentication.
func RegisterAccountingRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := &accountingHandler{
		chart:        services.Chart,
		accounts:     services.Account,
		balances:     services.Balance,
		transactions: services.Transaction,
		export:       services.Export,
	}

	accounting := rg.Group("/accounting")
	{
		accounting.POST("/setup", h.setupChart)
		accounting.GET("/accounts", h.listAccounts)
		accounting.POST("/accounts", h.createAccount)
		accounting.DELETE("/accounts/:id", h.deactivateAccount)
		accounting.GET("/accounts/:id/balance", h.getAccountBalance)
		accounting.GET("/transactions", h.listTransactions)
		accounting.POST("/transactions", h.createTransaction)
		accounting.PATCH("/transactions/:id/status", h.updateTransactionStatus)
		accounting.POST("/recalculate", h.recalculate)
		accounting.GET("/export", h.exportLedger)
	}
}

// setupChart godoc
// @Summary Create the default chart of accounts
// @Description Seeds the default accounts for the caller. Returns the existing chart unchanged when the caller already has accounts.
// @Tags accounting
// @Produce  json
// @Success 200 {object} dto.SetupChartResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to set up chart of accounts"
// @Security BearerAuth
// @Router /accounting/setup [post]
func (h *accountingHandler) setupChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	accounts, err := h.chart.SetupDefaultChartOfAccounts(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to set up chart of accounts")
		return
	}
	c.JSON(http.StatusOK, dto.SetupChartResponse{
		Success:  true,
		Message:  "Chart of accounts setup successfully",
		Accounts: dto.ToAccountResponses(accounts),
	})
}

// listAccounts godoc
// @Summary List active accounts
// @Description Lists the caller's active accounts ordered by account number
// @Tags accounting
// @Produce  json
// @Param   type query string false "Account type" Enums(asset, liability, equity, revenue, expense)
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid account type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /accounting/accounts [get]
func (h *accountingHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}
	var accountType *domain.AccountType
	if params.Type != "" {
		t := domain.AccountType(params.Type)
		accountType = &t
	}

	accounts, err := h.accounts.GetAccounts(c.Request.Context(), userID, accountType)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// createAccount godoc
// @Summary Create an account
// @Tags accounting
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Account number already used"
// @Security BearerAuth
// @Router /accounting/accounts [post]
func (h *accountingHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	account, err := h.accounts.CreateAccount(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}
	logger.Info("Account created", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Tags accounting
// @Param   id path string true "Account ID"
// @Success 204
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounting/accounts/{id} [delete]
func (h *accountingHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.accounts.DeactivateAccount(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get the materialized balance of an account
// @Tags accounting
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounting/accounts/{id}/balance [get]
func (h *accountingHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	accountID := c.Param("id")
	balance, err := h.accounts.GetAccountBalance(c.Request.Context(), userID, accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to get account balance")
		return
	}
	c.JSON(http.StatusOK, dto.AccountBalanceResponse{AccountID: accountID, Balance: balance})
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists the caller's transactions, newest date first
// @Tags accounting
// @Produce  json
// @Param   limit query int false "Page size (default 50, max 500)"
// @Param   offset query int false "Rows to skip"
// @Success 200 {array} dto.TransactionResponse
// @Security BearerAuth
// @Router /accounting/transactions [get]
func (h *accountingHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, logger, err)
		return
	}

	txns, err := h.transactions.GetTransactions(c.Request.Context(), userID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}

// createTransaction godoc
// @Summary Post a transaction
// @Description Stores a transaction with the next sequential number and recalculates balances
// @Tags accounting
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid line"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounting/transactions [post]
func (h *accountingHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	txn, err := h.transactions.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}
	if err := h.balances.UpdateAccountBalances(c.Request.Context(), userID); err != nil {
		// The transaction is stored; balances catch up on the next recalculation.
		logger.Error("Failed to recalculate balances after transaction", slog.String("error", err.Error()))
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// updateTransactionStatus godoc
// @Summary Post or void a transaction
// @Tags accounting
// @Accept  json
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Param   status body dto.UpdateTransactionStatusRequest true "New status"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Transition not allowed"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /accounting/transactions/{id}/status [patch]
func (h *accountingHandler) updateTransactionStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.UpdateTransactionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, logger, err)
		return
	}

	txn, err := h.transactions.UpdateTransactionStatus(c.Request.Context(), userID, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, logger, err, "Failed to update transaction status")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// recalculate godoc
// @Summary Recalculate all account balances
// @Tags accounting
// @Produce  json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /accounting/recalculate [post]
func (h *accountingHandler) recalculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.balances.UpdateAccountBalances(c.Request.Context(), userID); err != nil {
		respondError(c, logger, err, "Failed to recalculate balances")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// exportLedger godoc
// @Summary Download the ledger as a spreadsheet
// @Tags accounting
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Router /accounting/export [get]
func (h *accountingHandler) exportLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	data, err := h.export.ExportLedger(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to export ledger")
		return
	}
	filename := fmt.Sprintf("ledger-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
