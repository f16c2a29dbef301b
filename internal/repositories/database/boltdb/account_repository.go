package boltdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	bolt "go.etcd.io/bbolt"
)

type accountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.store.db.Update(func(tx *bolt.Tx) error {
		numbers := tx.Bucket([]byte(bucketAccountNumbers))
		key := indexKey(account.UserID, account.AccountNumber)
		if numbers.Get(key) != nil {
			return fmt.Errorf("%w: account number %s", apperrors.ErrDuplicate, account.AccountNumber)
		}
		accounts := tx.Bucket([]byte(bucketAccounts))
		if accounts.Get([]byte(account.AccountID)) != nil {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		if err := putJSON(accounts, account.AccountID, account); err != nil {
			return err
		}
		return numbers.Put(key, []byte(account.AccountID))
	})
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketAccounts)), accountID, &account)
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) ListAccounts(ctx context.Context, filter portsrepo.AccountFilter) ([]domain.Account, error) {
	accounts := []domain.Account{}
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return forEachJSON(tx.Bucket([]byte(bucketAccounts)), func(acc domain.Account) {
			if acc.UserID != filter.UserID {
				return
			}
			if filter.ActiveOnly && !acc.IsActive {
				return
			}
			if filter.Type != nil && acc.AccountType != *filter.Type {
				return
			}
			accounts = append(accounts, acc)
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})
	return accounts, nil
}

func (r *accountRepository) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	return r.modify(accountID, func(acc *domain.Account) error {
		acc.Balance = balance
		acc.Touch(userID, now)
		return nil
	})
}

func (r *accountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return r.modify(accountID, func(acc *domain.Account) error {
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
		}
		acc.IsActive = false
		acc.Touch(userID, now)
		return nil
	})
}

// modify loads an account, applies fn and writes it back in one bbolt transaction.
func (r *accountRepository) modify(accountID string, fn func(*domain.Account) error) error {
	return r.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketAccounts))
		var acc domain.Account
		if err := getJSON(b, accountID, &acc); err != nil {
			return err
		}
		if err := fn(&acc); err != nil {
			return err
		}
		return putJSON(b, accountID, acc)
	})
}
