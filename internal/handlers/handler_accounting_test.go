package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/dto"
)

type AccountingHandlerTestSuite struct {
	HandlerTestSuite
}

func TestAccountingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountingHandlerTestSuite))
}

func (suite *AccountingHandlerTestSuite) TestRoutesRequireToken() {
	w := suite.do(http.MethodGet, "/api/v1/accounting/accounts", "", "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestSetupChart() {
	accounts := []domain.Account{
		{AccountID: "a1", AccountNumber: "1000", Name: "Checking Account", AccountType: domain.Asset, IsActive: true, IsDefault: true},
	}
	suite.chart.On("SetupDefaultChartOfAccounts", mock.Anything, "user-1").Return(accounts, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounting/setup", "", "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.SetupChartResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Equal("Chart of accounts setup successfully", resp.Message)
	suite.Require().Len(resp.Accounts, 1)
	suite.Equal("1000", resp.Accounts[0].AccountNumber)
}

func (suite *AccountingHandlerTestSuite) TestListAccounts_TypeFilter() {
	suite.accounts.On("GetAccounts", mock.Anything, "user-1", mock.MatchedBy(func(t *domain.AccountType) bool {
		return t != nil && *t == domain.Revenue
	})).Return([]domain.Account{{AccountID: "r1", AccountType: domain.Revenue}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounting/accounts?type=revenue", "", "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)
}

func (suite *AccountingHandlerTestSuite) TestListAccounts_BadType() {
	w := suite.do(http.MethodGet, "/api/v1/accounting/accounts?type=bogus", "", "user-1")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestCreateAccount_Duplicate() {
	suite.accounts.On("CreateAccount", mock.Anything, "user-1", mock.AnythingOfType("dto.CreateAccountRequest")).
		Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounting/accounts",
		`{"accountNumber":"1000","name":"Checking","type":"asset"}`, "user-1")

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestDeactivateAccount() {
	suite.accounts.On("DeactivateAccount", mock.Anything, "user-1", "acc-1").Return(nil).Once()
	suite.accounts.On("DeactivateAccount", mock.Anything, "user-1", "acc-2").
		Return(fmt.Errorf("account has posted transactions: %w", apperrors.ErrValidation)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/accounting/accounts/acc-1", "", "user-1")
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/accounting/accounts/acc-2", "", "user-1")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestGetAccountBalance_NotFound() {
	suite.accounts.On("GetAccountBalance", mock.Anything, "user-1", "missing").
		Return(decimal.Zero, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounting/accounts/missing/balance", "", "user-1")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestListTransactions_Paging() {
	suite.transactions.On("GetTransactions", mock.Anything, "user-1", 25, 50).
		Return([]domain.Transaction{{TransactionID: "t1", TransactionNumber: "000001"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounting/transactions?limit=25&offset=50", "", "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	var resp []dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal("000001", resp[0].TransactionNumber)
}

func (suite *AccountingHandlerTestSuite) TestCreateTransaction_RecalculatesBalances() {
	created := &domain.Transaction{
		TransactionID: "t1", TransactionNumber: "000001", Type: domain.TypeJournal,
		Status: domain.StatusPosted, Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	suite.transactions.On("CreateTransaction", mock.Anything, "user-1", mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return len(req.Lines) == 2 && req.Lines[0].Debit.Equal(decimal.NewFromInt(40))
	})).Return(created, nil).Once()
	suite.balances.On("UpdateAccountBalances", mock.Anything, "user-1").Return(errors.New("db down")).Once()

	body := `{"description":"Owner draw","type":"journal","lines":[` +
		`{"accountId":"eq","debit":"40","credit":"0","description":"draw"},` +
		`{"accountId":"cash","debit":"0","credit":"40","description":"draw"}]}`
	w := suite.do(http.MethodPost, "/api/v1/accounting/transactions", body, "user-1")

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestCreateTransaction_NoLines() {
	w := suite.do(http.MethodPost, "/api/v1/accounting/transactions",
		`{"description":"x","type":"journal","lines":[]}`, "user-1")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestUpdateTransactionStatus() {
	suite.transactions.On("UpdateTransactionStatus", mock.Anything, "user-1", "t1", domain.StatusVoid).
		Return(&domain.Transaction{TransactionID: "t1", Status: domain.StatusVoid}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/accounting/transactions/t1/status", `{"status":"void"}`, "user-1")
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPatch, "/api/v1/accounting/transactions/t1/status", `{"status":"pending"}`, "user-1")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountingHandlerTestSuite) TestRecalculate_InternalError() {
	suite.balances.On("UpdateAccountBalances", mock.Anything, "user-1").Return(errors.New("boom")).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounting/recalculate", "", "user-1")

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error":"Failed to recalculate balances"}`, w.Body.String())
}

func (suite *AccountingHandlerTestSuite) TestExportLedger() {
	suite.export.On("ExportLedger", mock.Anything, "user-1").Return([]byte("PK"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounting/export", "", "user-1")

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Disposition"), "ledger-")
	suite.Equal("PK", w.Body.String())
}
