package boltdb

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	"github.com/tallybeam/tallybeam/internal/utils/numbering"
	"github.com/tallybeam/tallybeam/internal/utils/pagination"
	bolt "go.etcd.io/bbolt"
)

type transactionRepository struct {
	store *Store
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

// SaveTransaction stores header and lines as one document, so both are written atomically.
func (r *transactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.store.db.Update(func(tx *bolt.Tx) error {
		numbers := tx.Bucket([]byte(bucketTransactionNumbers))
		key := indexKey(txn.UserID, txn.TransactionNumber)
		if numbers.Get(key) != nil {
			return fmt.Errorf("%w: transaction number %s", apperrors.ErrDuplicate, txn.TransactionNumber)
		}
		txns := tx.Bucket([]byte(bucketTransactions))
		if txns.Get([]byte(txn.TransactionID)) != nil {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		if err := putJSON(txns, txn.TransactionID, txn); err != nil {
			return err
		}
		return numbers.Put(key, []byte(txn.TransactionID))
	})
}

func (r *transactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.store.db.Update(func(tx *bolt.Tx) error {
		txns := tx.Bucket([]byte(bucketTransactions))
		var existing domain.Transaction
		if err := getJSON(txns, txn.TransactionID, &existing); err != nil {
			return err
		}
		if existing.TransactionNumber != txn.TransactionNumber || existing.UserID != txn.UserID {
			return fmt.Errorf("%w: transaction number and owner cannot change", apperrors.ErrValidation)
		}
		return putJSON(txns, txn.TransactionID, txn)
	})
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketTransactions)), transactionID, &txn)
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *transactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	txns, err := r.scan(func(t domain.Transaction) bool { return matches(t, filter) })
	if err != nil {
		return nil, err
	}
	sortTransactions(txns, filter.Order)
	if filter.Limit <= 0 && filter.Offset <= 0 {
		return txns, nil
	}
	return pagination.Apply(txns, pagination.Window{Limit: filter.Limit, Offset: filter.Offset}), nil
}

func (r *transactionRepository) CountTransactions(ctx context.Context, filter portsrepo.TransactionFilter) (int, error) {
	txns, err := r.scan(func(t domain.Transaction) bool { return matches(t, filter) })
	if err != nil {
		return 0, err
	}
	return len(txns), nil
}

func (r *transactionRepository) FindPostedTransactionsByAccount(ctx context.Context, userID string, accountID string) ([]domain.Transaction, error) {
	return r.scan(func(t domain.Transaction) bool {
		return t.UserID == userID && t.IsPosted() && t.References(accountID)
	})
}

func (r *transactionRepository) FindMaxSequentialNumber(ctx context.Context, userID string) (int64, error) {
	var highest int64
	prefix := []byte(userID + "\x00")
	err := r.store.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketTransactionNumbers)).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if n, ok := numbering.ParseSequential(string(k[len(prefix):])); ok && n > highest {
				highest = n
			}
		}
		return nil
	})
	return highest, err
}

func (r *transactionRepository) scan(keep func(domain.Transaction) bool) ([]domain.Transaction, error) {
	out := []domain.Transaction{}
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return forEachJSON(tx.Bucket([]byte(bucketTransactions)), func(t domain.Transaction) {
			if keep(t) {
				out = append(out, t)
			}
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func matches(t domain.Transaction, f portsrepo.TransactionFilter) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.InvoiceStatus != "" && t.InvoiceStatus != f.InvoiceStatus {
		return false
	}
	return true
}

func sortTransactions(txns []domain.Transaction, order portsrepo.TransactionOrder) {
	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if order == portsrepo.OrderByDateDesc && !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionNumber > b.TransactionNumber
	})
}
