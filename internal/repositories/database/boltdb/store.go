// Package boltdb is an embedded, single-file document store for the ledger,
// used for single-node deployments and tests.
package boltdb

import (
	"encoding/json"
	"fmt"

	"github.com/tallybeam/tallybeam/internal/apperrors"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	bucketAccounts           = "accounts"
	bucketAccountNumbers     = "account_numbers"
	bucketTransactions       = "transactions"
	bucketTransactionNumbers = "transaction_numbers"
	bucketUsers              = "users"
)

// Store wraps the bbolt database.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database file at path and initializes the buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := []string{bucketAccounts, bucketAccountNumbers, bucketTransactions, bucketTransactionNumbers, bucketUsers}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRepositoryProvider exposes the store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepository{store: s},
		TransactionRepo: &transactionRepository{store: s},
		UserRepo:        &userRepository{store: s},
	}
}

// indexKey builds the key of a per-user uniqueness index.
func indexKey(userID, value string) []byte {
	return []byte(userID + "\x00" + value)
}

func getJSON(b *bolt.Bucket, key string, v any) error {
	data := b.Get([]byte(key))
	if data == nil {
		return apperrors.ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put([]byte(key), data)
}

// forEachJSON decodes every value of b into a fresh T and passes it to fn.
func forEachJSON[T any](b *bolt.Bucket, fn func(T)) error {
	return b.ForEach(func(k, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", k, err)
		}
		fn(item)
		return nil
	})
}
