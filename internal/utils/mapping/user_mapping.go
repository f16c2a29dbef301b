package mapping

import (
	"database/sql"

	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/models"
)

// ToModelUser flattens a domain User and its preferences into a users row.
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:               d.UserID,
		Email:                d.Email,
		FirstName:            d.FirstName,
		LastName:             d.LastName,
		ImageURL:             d.ImageURL,
		IsActive:             d.IsActive,
		DefaultCurrency:      d.Preferences.DefaultCurrency,
		DefaultPaymentMethod: string(d.Preferences.DefaultPaymentMethod),
		EmailNotifications:   d.Preferences.EmailNotifications,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
	if d.LastLoginAt != nil {
		m.LastLoginAt = sql.NullTime{Time: *d.LastLoginAt, Valid: true}
	}
	return m
}

// ToDomainUser converts a users row to a domain User.
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:    m.UserID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		ImageURL:  m.ImageURL,
		IsActive:  m.IsActive,
		Preferences: domain.UserPreferences{
			DefaultCurrency:      m.DefaultCurrency,
			DefaultPaymentMethod: domain.PaymentMethod(m.DefaultPaymentMethod),
			EmailNotifications:   m.EmailNotifications,
		},
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	d.LastLoginAt = fromNullTime(m.LastLoginAt)
	return d
}
