package mapping

import (
	"github.com/tallybeam/tallybeam/internal/core/domain"
	"github.com/tallybeam/tallybeam/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		UserID:        d.UserID,
		AccountNumber: d.AccountNumber,
		Name:          d.Name,
		AccountType:   models.AccountType(d.AccountType),
		Category:      d.Category,
		Subcategory:   d.Subcategory,
		Description:   d.Description,
		Balance:       d.Balance,
		IsActive:      d.IsActive,
		IsDefault:     d.IsDefault,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		UserID:        m.UserID,
		AccountNumber: m.AccountNumber,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		Category:      m.Category,
		Subcategory:   m.Subcategory,
		Description:   m.Description,
		Balance:       m.Balance,
		IsActive:      m.IsActive,
		IsDefault:     m.IsDefault,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
