package storage

import (
	"encoding/json"
	"errors"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/stillpoint/breathe/internal/model"
)

// ErrKeyNotFound is returned when no record exists under a key.
var ErrKeyNotFound = errors.New("key not found")

// IsErrKeyNotFound matches missing-record errors from this package or
// from badger directly.
func IsErrKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, badger.ErrKeyNotFound)
}

// IsErrConflict matches badger transaction conflicts, which callers
// such as the stats aggregator retry.
func IsErrConflict(err error) bool {
	return errors.Is(err, badger.ErrConflict)
}

// Get loads the record stored under key into v. Records are stored as
// JSON with the key held outside the value, so the key is restored on
// the model after decoding.
func (d *DB) Get(key string, v model.Model) error {
	return d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, v); err != nil {
				return err
			}
			v.SetKey(key)
			return nil
		})
	})
}

// Set writes v under its own key.
func (d *DB) Set(v model.Model) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(v.GetKey()), data)
	})
}

// Delete removes the record under key. Deleting a missing key is a
// no-op.
func (d *DB) Delete(key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Exists reports whether a record is stored under key.
func (d *DB) Exists(key string) (bool, error) {
	exists := false
	err := d.db.View(func(txn *badger.Txn) error {
		switch _, err := txn.Get([]byte(key)); {
		case err == nil:
			exists = true
			return nil
		case errors.Is(err, badger.ErrKeyNotFound):
			return nil
		default:
			return err
		}
	})
	return exists, err
}

// ListByPrefix returns every key under a namespace prefix, such as
// "session:" or "reminder:". Values are not fetched.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// GetAllByPrefix loads every record under a namespace prefix.
func GetAllByPrefix[T model.Model](d *DB, prefix string, newFunc func() T) ([]T, error) {
	return GetFilteredByPrefix(d, prefix, newFunc, nil, 0)
}

// GetFilteredByPrefix loads records under a namespace prefix, keeping
// those the filter accepts. A nil filter keeps everything; limit 0
// means unbounded. The limit applies in key order, so callers that
// sort afterwards (session history) pass 0 and truncate themselves.
func GetFilteredByPrefix[T model.Model](d *DB, prefix string, newFunc func() T, filter func(T) bool, limit int) ([]T, error) {
	var results []T
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 100
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			item := it.Item()
			err := item.Value(func(val []byte) error {
				v := newFunc()
				if err := json.Unmarshal(val, v); err != nil {
					return err
				}
				v.SetKey(string(item.Key()))
				if filter == nil || filter(v) {
					results = append(results, v)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return results, err
}
