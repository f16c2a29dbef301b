package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portssvc "github.com/tallybeam/tallybeam/internal/core/ports/services"
	"github.com/tallybeam/tallybeam/internal/dto"
	"github.com/tallybeam/tallybeam/internal/handlers"
	"github.com/tallybeam/tallybeam/internal/middleware"
	"github.com/tallybeam/tallybeam/internal/platform/config"
)

// --- Mock ChartOfAccountsService ---
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) SetupDefaultChartOfAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockChartService) ResolveWellKnownAccounts(ctx context.Context, userID string, roles ...domain.WellKnownAccount) (map[domain.WellKnownAccount]domain.Account, error) {
	args := m.Called(ctx, userID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.WellKnownAccount]domain.Account), args.Error(1)
}

var _ portssvc.ChartOfAccountsSvc = (*MockChartService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccounts(ctx context.Context, userID string, accountType *domain.AccountType) ([]domain.Account, error) {
	args := m.Called(ctx, userID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountBalance(ctx context.Context, userID string, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	return m.Called(ctx, userID, accountID).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) UpdateAccountBalances(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransactions(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockTransactionService) UpdateTransactionStatus(ctx context.Context, userID string, transactionID string, status domain.TransactionStatus) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockInvoiceService) RecordPayment(ctx context.Context, invoiceID string, amount decimal.Decimal, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, invoiceID, amount, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Transaction, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockInvoiceService) ListInvoices(ctx context.Context, userID string, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}
func (m *MockInvoiceService) RenderInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}
func (m *MockInvoiceService) UpdateInvoice(ctx context.Context, invoiceID string, req dto.UpdateInvoiceRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, invoiceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SyncUser(ctx context.Context, profile domain.IdentityProfile) (*domain.User, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*domain.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Mock ParseService ---
type MockParseService struct {
	mock.Mock
}

func (m *MockParseService) ParseInvoiceText(ctx context.Context, input string) (*domain.ParsedInvoice, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedInvoice), args.Error(1)
}

var _ portssvc.ParseSvc = (*MockParseService)(nil)

// --- Mock ExportService ---
type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportLedger(ctx context.Context, userID string) ([]byte, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

var _ portssvc.ExportSvc = (*MockExportService)(nil)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testIssuer    = "tallybeam-test"
)

// HandlerTestSuite serves the full route table backed by mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router *gin.Engine

	chart        *MockChartService
	accounts     *MockAccountService
	balances     *MockBalanceService
	transactions *MockTransactionService
	invoices     *MockInvoiceService
	users        *MockUserService
	parser       *MockParseService
	export       *MockExportService

	rateLimit string
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	suite.chart = new(MockChartService)
	suite.accounts = new(MockAccountService)
	suite.balances = new(MockBalanceService)
	suite.transactions = new(MockTransactionService)
	suite.invoices = new(MockInvoiceService)
	suite.users = new(MockUserService)
	suite.parser = new(MockParseService)
	suite.export = new(MockExportService)

	rateLimit := suite.rateLimit
	if rateLimit == "" {
		rateLimit = "1000-M"
	}
	cfg := &config.Config{
		IsProduction:       true,
		JWTSecret:          testJWTSecret,
		JWTIssuer:          testIssuer,
		CORSAllowedOrigins: []string{"*"},
		RateLimit:          rateLimit,
	}
	services := &portssvc.ServiceContainer{
		Chart:       suite.chart,
		Account:     suite.accounts,
		Balance:     suite.balances,
		Transaction: suite.transactions,
		Invoice:     suite.invoices,
		User:        suite.users,
		Parse:       suite.parser,
		Export:      suite.export,
	}
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, services, nil))
}

func (suite *HandlerTestSuite) TearDownTest() {
	for _, m := range []interface{ AssertExpectations(mock.TestingT) bool }{
		suite.chart, suite.accounts, suite.balances, suite.transactions,
		suite.invoices, suite.users, suite.parser, suite.export,
	} {
		m.AssertExpectations(suite.T())
	}
}

// generateTestToken creates a signed identity token for userID.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	return suite.signToken(userID, time.Now().Add(1*time.Hour))
}

func (suite *HandlerTestSuite) expiredToken(userID string) string {
	return suite.signToken(userID, time.Now().Add(-1*time.Minute))
}

func (suite *HandlerTestSuite) signToken(userID string, expiresAt time.Time) string {
	claims := middleware.IdentityClaims{
		Email:      userID + "@example.com",
		GivenName:  "Test",
		FamilyName: "User",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-2 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

// do serves a request; an empty userID sends it without a token.
func (suite *HandlerTestSuite) do(method, url, body, userID string) *httptest.ResponseRecorder {
	authorization := ""
	if userID != "" {
		authorization = "Bearer " + suite.generateTestToken(userID)
	}
	return suite.doWithHeader(method, url, body, authorization)
}

func (suite *HandlerTestSuite) doWithHeader(method, url, body, authorization string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}
