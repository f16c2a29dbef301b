package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller may not act on the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnbalanced indicates that a transaction's debits and credits differ.
// Nothing refuses to store an unbalanced transaction today; callers may use it to report one.
var ErrUnbalanced = errors.New("transaction is unbalanced")

// ErrInternal is used when an underlying store or collaborator fails.
var ErrInternal = errors.New("internal error")

// Ledger specific errors. Each wraps one of the generic sentinels above so
// handlers only need to check the generic kind.
var (
	ErrAccountNotFound          = fmt.Errorf("account not found: %w", ErrNotFound)
	ErrInvoiceNotFound          = fmt.Errorf("invoice not found: %w", ErrNotFound)
	ErrTransactionNotFound      = fmt.Errorf("transaction not found: %w", ErrNotFound)
	ErrUserNotFound             = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrRequiredAccountsNotFound = fmt.Errorf("required accounts not found: %w", ErrNotFound)
	ErrInvalidLine              = fmt.Errorf("invalid transaction line: %w", ErrValidation)
	ErrInvalidStatusTransition  = fmt.Errorf("invalid status transition: %w", ErrValidation)
)

// AppError carries an HTTP-ish status code and a message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. A nil err is replaced with ErrInternal so
// errors.Is always has something to match against.
func NewAppError(code int, message string, err error) *AppError {
	if err == nil {
		err = ErrInternal
	}
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
