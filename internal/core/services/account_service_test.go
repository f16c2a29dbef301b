package services_test

import (
	"context"
	"errors"
	"testing"

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

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	ctx      context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithClock(fixedClock))
	suite.ctx = context.Background()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		AccountNumber: "1010",
		Name:          "Petty Cash",
		AccountType:   domain.Asset,
		Category:      "Current Assets",
	}
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, "user-1", req)

	suite.Require().NoError(err)
	suite.NotEmpty(created.AccountID)
	suite.Equal("user-1", created.UserID)
	suite.Equal("1010", created.AccountNumber)
	suite.True(created.IsActive)
	suite.False(created.IsDefault)
	suite.True(created.Balance.IsZero())
	suite.Equal(fixedNow, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	req := dto.CreateAccountRequest{AccountNumber: "1000", Name: "Checking Account", AccountType: domain.Asset}
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	_, err := suite.service.CreateAccount(suite.ctx, "user-1", req)

	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := suite.service.CreateAccount(suite.ctx, "user-1", dto.CreateAccountRequest{AccountType: "cash"})
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccounts_ActiveOnlyWithType() {
	revenue := domain.Revenue
	filter := portsrepo.AccountFilter{UserID: "user-1", Type: &revenue, ActiveOnly: true}
	want := []domain.Account{{AccountID: "a", AccountNumber: "4000"}}
	suite.mockRepo.On("ListAccounts", suite.ctx, filter).Return(want, nil).Once()

	got, err := suite.service.GetAccounts(suite.ctx, "user-1", &revenue)

	suite.Require().NoError(err)
	suite.Equal(want, got)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccounts_NilBecomesEmpty() {
	suite.mockRepo.On("ListAccounts", suite.ctx, portsrepo.AccountFilter{UserID: "user-1", ActiveOnly: true}).Return(nil, nil).Once()

	got, err := suite.service.GetAccounts(suite.ctx, "user-1", nil)

	suite.Require().NoError(err)
	suite.NotNil(got)
	suite.Empty(got)
}

func (suite *AccountServiceTestSuite) TestGetAccountBalance() {
	owned := &domain.Account{AccountID: "a", UserID: "user-1", Balance: decimal.RequireFromString("42.10")}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "a").Return(owned, nil)
	suite.mockRepo.On("FindAccountByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound)

	balance, err := suite.service.GetAccountBalance(suite.ctx, "user-1", "a")
	suite.Require().NoError(err)
	suite.True(balance.Equal(decimal.RequireFromString("42.1")))

	_, err = suite.service.GetAccountBalance(suite.ctx, "someone-else", "a")
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)

	_, err = suite.service.GetAccountBalance(suite.ctx, "user-1", "missing")
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	owned := &domain.Account{AccountID: "a", UserID: "user-1", IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "a").Return(owned, nil)
	suite.mockRepo.On("DeactivateAccount", suite.ctx, "a", "user-1", fixedNow).Return(nil).Once()

	suite.Require().NoError(suite.service.DeactivateAccount(suite.ctx, "user-1", "a"))
	suite.ErrorIs(suite.service.DeactivateAccount(suite.ctx, "intruder", "a"), apperrors.ErrAccountNotFound)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "DeactivateAccount", 1)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_RepositoryError() {
	owned := &domain.Account{AccountID: "a", UserID: "user-1", IsActive: true}
	boom := errors.New("disk full")
	suite.mockRepo.On("FindAccountByID", suite.ctx, "a").Return(owned, nil)
	suite.mockRepo.On("DeactivateAccount", suite.ctx, "a", "user-1", fixedNow).Return(boom).Once()

	suite.ErrorIs(suite.service.DeactivateAccount(suite.ctx, "user-1", "a"), boom)
}
