package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

type badgerPostRepo struct {
	runner
	now func() time.Time
}

// NewPostRepository creates a post repository backed by Badger.
// Each post is one JSON document under "post:<id>"; patches are applied as
// read-modify-write inside an optimistic transaction.
func NewPostRepository(db *badger.DB) posts.Repository {
	return &badgerPostRepo{
		runner: runner{db: db},
		now:    utcNow,
	}
}

func postKey(id string) string {
	return postKeyPrefix + id
}

// Create inserts a new post
func (r *badgerPostRepo) Create(ctx context.Context, post *posts.Post) error {
	post.PrepareForCreate(r.now())

	return r.update(func(txn *badger.Txn) error {
		key := postKey(post.ID)
		if _, err := txn.Get([]byte(key)); err == nil {
			return fmt.Errorf("post already exists: %s", post.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check post key: %w", err)
		}
		return setEntity(txn, key, post)
	})
}

// GetByID retrieves a post by ID
func (r *badgerPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	var post posts.Post
	err := r.view(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// FindByIDAndUpdate applies patch to the stored document and returns the result
func (r *badgerPostRepo) FindByIDAndUpdate(ctx context.Context, id string, patch posts.Patch) (*posts.Post, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *posts.Post
	err := r.update(func(txn *badger.Txn) error {
		var post posts.Post
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		patch.Apply(&post, r.now())
		if err := setEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		updated = &post
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return updated, nil
}

// FindByIDAndDelete removes a post and returns its last state
func (r *badgerPostRepo) FindByIDAndDelete(ctx context.Context, id string) (*posts.Post, error) {
	var deleted *posts.Post
	err := r.update(func(txn *badger.Txn) error {
		var post posts.Post
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		if err := txn.Delete([]byte(postKey(id))); err != nil {
			return err
		}
		deleted = &post
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}
	return deleted, nil
}

// Find scans every post document and filters in memory
func (r *badgerPostRepo) Find(ctx context.Context, q posts.Query) ([]*posts.Post, error) {
	result := []*posts.Post{}
	if q.AuthorIDs != nil && len(q.AuthorIDs) == 0 {
		return result, nil
	}

	err := r.view(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(postKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var post posts.Post
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			}); err != nil {
				return err
			}
			if q.Matches(&post) {
				result = append(result, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}

	posts.SortPosts(result, q.Sort)
	return result, nil
}

// WithinTx runs fn against a repository bound to a single Badger transaction.
// The whole closure is replayed on an optimistic conflict.
func (r *badgerPostRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, repo posts.Repository) error) error {
	if r.txn != nil {
		return fn(ctx, r)
	}
	return r.update(func(txn *badger.Txn) error {
		return fn(ctx, &badgerPostRepo{
			runner: runner{db: r.db, txn: txn},
			now:    r.now,
		})
	})
}
