package boltdb

import (
	"context"
	"fmt"

	"github.com/tallybeam/tallybeam/internal/apperrors"
	"github.com/tallybeam/tallybeam/internal/core/domain"
	portsrepo "github.com/tallybeam/tallybeam/internal/core/ports/repositories"
	bolt "go.etcd.io/bbolt"
)

type userRepository struct {
	store *Store
}

var _ portsrepo.UserRepositoryFacade = (*userRepository)(nil)

func (r *userRepository) SaveUser(ctx context.Context, user domain.User) error {
	return r.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketUsers))
		if b.Get([]byte(user.UserID)) != nil {
			return fmt.Errorf("%w: user %s", apperrors.ErrDuplicate, user.UserID)
		}
		return putJSON(b, user.UserID, user)
	})
}

func (r *userRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return r.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketUsers))
		if b.Get([]byte(user.UserID)) == nil {
			return apperrors.ErrNotFound
		}
		return putJSON(b, user.UserID, user)
	})
}

func (r *userRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := r.store.db.View(func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket([]byte(bucketUsers)), userID, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
