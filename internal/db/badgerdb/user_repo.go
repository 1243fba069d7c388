package badgerdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/SoulMinT05/threadsnet/internal/core/users"
)

type badgerUserRepo struct {
	runner
}

// NewUserRepository creates a user repository backed by Badger
func NewUserRepository(db *badger.DB) users.Repository {
	return &badgerUserRepo{runner: runner{db: db}}
}

func userKey(id string) string {
	return userKeyPrefix + id
}

// GetByID retrieves a user by ID
func (r *badgerUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	var user users.User
	err := r.view(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if user.Following == nil {
		user.Following = []string{}
	}
	return &user, nil
}

// Upsert creates or replaces a user, keeping the original creation time
func (r *badgerUserRepo) Upsert(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}

	return r.update(func(txn *badger.Txn) error {
		var existing users.User
		err := getEntity(txn, userKey(user.ID), &existing)
		switch {
		case err == nil:
			user.CreatedAt = existing.CreatedAt
		case errors.Is(err, badger.ErrKeyNotFound):
			if user.CreatedAt.IsZero() {
				user.CreatedAt = utcNow()
			}
		default:
			return err
		}
		return setEntity(txn, userKey(user.ID), user)
	})
}
