package users

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedRepository fronts a Repository with a bounded, TTL-expiring LRU.
// Feeds are read-computed, so a follow made elsewhere becomes visible here
// after at most ttl.
type CachedRepository struct {
	repo  Repository
	cache *expirable.LRU[string, *User]
}

// NewCachedRepository wraps repo. size <= 0 falls back to 1000 entries.
func NewCachedRepository(repo Repository, size int, ttl time.Duration) *CachedRepository {
	if size <= 0 {
		size = 1000
	}
	return &CachedRepository{
		repo:  repo,
		cache: expirable.NewLRU[string, *User](size, nil, ttl),
	}
}

// GetByID serves from the cache when possible. Misses are not cached.
func (r *CachedRepository) GetByID(ctx context.Context, id string) (*User, error) {
	if user, ok := r.cache.Get(id); ok {
		return user.Clone(), nil
	}

	user, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cache.Add(id, user.Clone())
	return user, nil
}

// Upsert writes through and drops the cached entry
func (r *CachedRepository) Upsert(ctx context.Context, user *User) error {
	if err := r.repo.Upsert(ctx, user); err != nil {
		return err
	}
	r.cache.Remove(user.ID)
	return nil
}
