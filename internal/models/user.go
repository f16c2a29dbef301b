package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	UserID               string       `db:"user_id"`
	Email                string       `db:"email"`
	FirstName            string       `db:"first_name"`
	LastName             string       `db:"last_name"`
	ImageURL             string       `db:"image_url"`
	IsActive             bool         `db:"is_active"`
	LastLoginAt          sql.NullTime `db:"last_login_at"`
	DefaultCurrency      string       `db:"default_currency"`
	DefaultPaymentMethod string       `db:"default_payment_method"`
	EmailNotifications   bool         `db:"email_notifications"`
	CreatedAt            time.Time    `db:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at"`
}
