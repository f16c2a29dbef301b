package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/core/services"
	"github.com/tallybeam/tallybeam/internal/dto"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	accountRepo *MockAccountRepository
	txnRepo     *MockTransactionRepository
	balances    *MockBalanceService
	service     portssvc.TransactionSvcFacade
	ctx         context.Context
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.accountRepo = new(MockAccountRepository)
	suite.txnRepo = new(MockTransactionRepository)
	suite.balances = new(MockBalanceService)
	suite.service = services.NewTransactionService(suite.accountRepo, suite.txnRepo, suite.balances, services.WithClock(fixedClock))
	suite.ctx = context.Background()

	suite.accountRepo.On("FindAccountByID", mock.Anything, "cash").
		Return(&domain.Account{AccountID: "cash", UserID: "user-1", AccountNumber: "1000", Name: "Checking Account", AccountType: domain.Asset}, nil).Maybe()
	suite.accountRepo.On("FindAccountByID", mock.Anything, "rent").
		Return(&domain.Account{AccountID: "rent", UserID: "user-1", AccountNumber: "6200", Name: "Rent Expense", AccountType: domain.Expense}, nil).Maybe()
	suite.accountRepo.On("FindAccountByID", mock.Anything, "foreign").
		Return(&domain.Account{AccountID: "foreign", UserID: "user-2"}, nil).Maybe()
	suite.accountRepo.On("FindAccountByID", mock.Anything, "ghost").
		Return(nil, apperrors.ErrNotFound).Maybe()
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func rentRequest(debit, credit string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Description: "June rent",
		Type:        domain.TypeExpense,
		Lines: []dto.TransactionLineRequest{
			{AccountID: "rent", Debit: decimal.RequireFromString(debit), Description: "Rent"},
			{AccountID: "cash", Credit: decimal.RequireFromString(credit), Description: "Rent paid"},
		},
	}
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_SequentialNumberAndSnapshot() {
	suite.txnRepo.On("FindMaxSequentialNumber", suite.ctx, "user-1").Return(int64(41), nil).Once()
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, "user-1", rentRequest("1200", "1200"))

	suite.Require().NoError(err)
	suite.Equal("000042", txn.TransactionNumber)
	suite.Equal(domain.StatusPosted, txn.Status)
	suite.Equal(fixedNow, txn.Date)
	suite.True(txn.IsBalanced)
	suite.True(txn.TotalDebit.Equal(decimal.NewFromInt(1200)))
	suite.Require().Len(txn.Lines, 2)
	suite.Equal("Rent Expense", txn.Lines[0].AccountName)
	suite.Equal("6200", txn.Lines[0].AccountNumber)
	suite.Equal("1000", txn.Lines[1].AccountNumber)
	suite.balances.AssertNotCalled(suite.T(), "UpdateAccountBalances", mock.Anything, mock.Anything)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_PendingAndExplicitDate() {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	req := rentRequest("10", "10")
	req.Status = domain.StatusPending
	req.Date = &date
	suite.txnRepo.On("FindMaxSequentialNumber", suite.ctx, "user-1").Return(int64(0), nil).Once()
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, "user-1", req)

	suite.Require().NoError(err)
	suite.Equal("000001", txn.TransactionNumber)
	suite.Equal(domain.StatusPending, txn.Status)
	suite.Equal(date, txn.Date)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_UnbalancedIsStored() {
	suite.txnRepo.On("FindMaxSequentialNumber", suite.ctx, "user-1").Return(int64(3), nil).Once()
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return !t.IsBalanced
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, "user-1", rentRequest("100", "90"))

	suite.Require().NoError(err)
	suite.False(txn.IsBalanced)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_RoundsLineAmountsToCents() {
	suite.txnRepo.On("FindMaxSequentialNumber", suite.ctx, "user-1").Return(int64(0), nil).Once()
	suite.txnRepo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, "user-1", rentRequest("10.005", "10.0051"))

	suite.Require().NoError(err)
	suite.Require().Len(txn.Lines, 2)
	suite.Equal("10.01", txn.Lines[0].Debit.String())
	suite.Equal("10.01", txn.Lines[1].Credit.String())
	suite.Equal("10.01", txn.TotalDebit.String())
	suite.True(txn.IsBalanced)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_InvalidLines() {
	tests := []struct {
		name    string
		req     dto.CreateTransactionRequest
		wantErr error
	}{
		{"negative debit", rentRequest("-5", "5"), apperrors.ErrInvalidLine},
		{"both sides", dto.CreateTransactionRequest{Type: domain.TypeJournal, Lines: []dto.TransactionLineRequest{
			{AccountID: "cash", Debit: decimal.NewFromInt(1), Credit: decimal.NewFromInt(1)},
		}}, apperrors.ErrInvalidLine},
		{"unknown account", dto.CreateTransactionRequest{Type: domain.TypeJournal, Lines: []dto.TransactionLineRequest{
			{AccountID: "ghost", Debit: decimal.NewFromInt(1)},
		}}, apperrors.ErrAccountNotFound},
		{"account of another user", dto.CreateTransactionRequest{Type: domain.TypeJournal, Lines: []dto.TransactionLineRequest{
			{AccountID: "foreign", Debit: decimal.NewFromInt(1)},
		}}, apperrors.ErrAccountNotFound},
		{"no lines", dto.CreateTransactionRequest{Type: domain.TypeJournal}, apperrors.ErrValidation},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateTransaction(suite.ctx, "user-1", tt.req)
			suite.ErrorIs(err, tt.wantErr)
		})
	}
	suite.txnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestGetTransactions_DefaultsAndClamp() {
	suite.txnRepo.On("ListTransactions", suite.ctx, portsrepo.TransactionFilter{
		UserID: "user-1", Order: portsrepo.OrderByDateDesc, Limit: 50, Offset: 0,
	}).Return([]domain.Transaction{}, nil).Once()
	suite.txnRepo.On("ListTransactions", suite.ctx, portsrepo.TransactionFilter{
		UserID: "user-1", Order: portsrepo.OrderByDateDesc, Limit: 500, Offset: 20,
	}).Return(nil, nil).Once()

	got, err := suite.service.GetTransactions(suite.ctx, "user-1", 0, -3)
	suite.Require().NoError(err)
	suite.Empty(got)

	got, err = suite.service.GetTransactions(suite.ctx, "user-1", 10000, 20)
	suite.Require().NoError(err)
	suite.NotNil(got)
	suite.txnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransactionStatus() {
	pending := &domain.Transaction{
		TransactionID: "t1", UserID: "user-1", Type: domain.TypeJournal, Status: domain.StatusPending,
		Lines: []domain.TransactionLine{{AccountID: "cash", Debit: decimal.NewFromInt(5)}, {AccountID: "rent", Credit: decimal.NewFromInt(5)}},
	}
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "t1").Return(pending, nil).Once()
	suite.txnRepo.On("UpdateTransaction", suite.ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Status == domain.StatusPosted && t.LastUpdatedAt.Equal(fixedNow)
	})).Return(nil).Once()
	suite.balances.On("UpdateAccountBalances", suite.ctx, "user-1").Return(nil).Once()

	txn, err := suite.service.UpdateTransactionStatus(suite.ctx, "user-1", "t1", domain.StatusPosted)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, txn.Status)
	suite.True(txn.IsBalanced)
	suite.balances.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransactionStatus_Rejected() {
	void := &domain.Transaction{TransactionID: "t2", UserID: "user-1", Status: domain.StatusVoid}
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "t2").Return(void, nil)
	suite.txnRepo.On("FindTransactionByID", suite.ctx, "t3").Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.UpdateTransactionStatus(suite.ctx, "user-1", "t2", domain.StatusPosted)
	suite.ErrorIs(err, apperrors.ErrInvalidStatusTransition)

	_, err = suite.service.UpdateTransactionStatus(suite.ctx, "user-9", "t2", domain.StatusVoid)
	suite.ErrorIs(err, apperrors.ErrTransactionNotFound)

	_, err = suite.service.UpdateTransactionStatus(suite.ctx, "user-1", "t3", domain.StatusVoid)
	suite.ErrorIs(err, apperrors.ErrTransactionNotFound)

	suite.txnRepo.AssertNotCalled(suite.T(), "UpdateTransaction", mock.Anything, mock.Anything)
}
