package dto

import (
	"time"

	"github.com/tallybeam/tallybeam/internal/core/domain"
)

// UpdatePreferencesRequest is a partial update of a user's invoicing defaults.
type UpdatePreferencesRequest struct {
	DefaultCurrency      *string               `json:"defaultCurrency" binding:"omitempty,oneof=USD EUR GBP CAD"`
	DefaultPaymentMethod *domain.PaymentMethod `json:"defaultPaymentMethod" binding:"omitempty,oneof=cash check bank_transfer venmo paypal other"`
	EmailNotifications   *bool                 `json:"emailNotifications"`
}

// UserResponse defines the user data returned to the client.
type UserResponse struct {
	UserID      string                 `json:"userID"`
	Email       string                 `json:"email"`
	FirstName   string                 `json:"firstName,omitempty"`
	LastName    string                 `json:"lastName,omitempty"`
	ImageURL    string                 `json:"imageUrl,omitempty"`
	Preferences domain.UserPreferences `json:"preferences"`
	LastLoginAt *time.Time             `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// UserEnvelope is the {success, user} body of the user endpoints.
type UserEnvelope struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		ImageURL:    u.ImageURL,
		Preferences: u.Preferences,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
