package domain

import "time"

// UserPreferences holds per-user invoicing defaults.
type UserPreferences struct {
	DefaultCurrency      string        `json:"defaultCurrency"`
	DefaultPaymentMethod PaymentMethod `json:"defaultPaymentMethod"`
	EmailNotifications   bool          `json:"emailNotifications"`
}

// DefaultUserPreferences returns the preferences given to newly synced users.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		DefaultCurrency:      CurrencyUSD,
		DefaultPaymentMethod: PaymentVenmo,
		EmailNotifications:   true,
	}
}

// User is a person known to the identity provider who has signed in at least once.
type User struct {
	UserID      string          `json:"userID"` // identity provider subject
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName,omitempty"`
	LastName    string          `json:"lastName,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	IsActive    bool            `json:"isActive"`
	LastLoginAt *time.Time      `json:"lastLoginAt,omitempty"`
	Preferences UserPreferences `json:"preferences"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IdentityProfile is the verified subset of identity claims used to sync a user.
type IdentityProfile struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Name       string // full display name, used when the given/family claims are absent
	Picture    string
}
