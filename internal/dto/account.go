package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// CreateAccountRequest defines the data needed to add an account to a user's chart.
type CreateAccountRequest struct {
	AccountNumber string             `json:"accountNumber" binding:"required,max=20"`
	Name          string             `json:"name" binding:"required,max=120"`
	AccountType   domain.AccountType `json:"type" binding:"required,oneof=asset liability equity revenue expense"`
	Category      string             `json:"category"`
	Subcategory   string             `json:"subcategory"`
	Description   string             `json:"description"`
}

// ListAccountsParams holds the optional query filters of the account listing.
type ListAccountsParams struct {
	Type string `form:"type" binding:"omitempty,oneof=asset liability equity revenue expense"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"id"`
	AccountNumber string             `json:"accountNumber"`
	Name          string             `json:"name"`
	AccountType   domain.AccountType `json:"type"`
	Category      string             `json:"category,omitempty"`
	Subcategory   string             `json:"subcategory,omitempty"`
	Description   string             `json:"description,omitempty"`
	Balance       decimal.Decimal    `json:"balance"`
	IsActive      bool               `json:"isActive"`
	IsDefault     bool               `json:"isDefault"`
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// AccountBalanceResponse is returned by the balance lookup.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Category:      acc.Category,
		Subcategory:   acc.Subcategory,
		Description:   acc.Description,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		IsDefault:     acc.IsDefault,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	resp := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		resp = append(resp, ToAccountResponse(&accounts[i]))
	}
	return resp
}

// SetupChartResponse is returned by the chart-of-accounts setup endpoint.
type SetupChartResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Accounts []AccountResponse `json:"accounts"`
}
