package badgerdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const (
	// Key prefixes for different entity types
	postKeyPrefix = "post:"
	userKeyPrefix = "user:"

	// maxConflictRetries bounds how often an optimistic transaction is
	// replayed after another writer committed to a key it read
	maxConflictRetries = 64
)

// Open opens a Badger database at path. An empty path opens an in-memory
// database, used by tests and throwaway dev runs.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}
	return db, nil
}

// runner executes reads and read-modify-write closures either inside an
// enclosing transaction or in fresh ones
type runner struct {
	db  *badger.DB
	txn *badger.Txn
}

func (r runner) view(fn func(txn *badger.Txn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}
	return r.db.View(fn)
}

// update runs fn in a read-write transaction, replaying it when the commit
// loses an optimistic conflict. fn must not keep state across attempts.
func (r runner) update(fn func(txn *badger.Txn) error) error {
	if r.txn != nil {
		return fn(r.txn)
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err := r.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * 100 * time.Microsecond)
	}
	return fmt.Errorf("transaction kept conflicting after %d attempts: %w", maxConflictRetries, badger.ErrConflict)
}

func getEntity(txn *badger.Txn, key string, entity interface{}) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

func setEntity(txn *badger.Txn, key string, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
