package storage

import (
	"encoding/json"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/stillpoint/breathe/internal/model"
)

// StatsRepo provides operations for the singleton UserStats entity.
type StatsRepo struct {
	db *DB
}

// NewStatsRepo creates a new stats repository.
func NewStatsRepo(db *DB) *StatsRepo {
	return &StatsRepo{db: db}
}

// Get retrieves the user stats, returning zeroed stats if none exist yet.
func (r *StatsRepo) Get(ownerKey string) (*model.UserStats, error) {
	stats := &model.UserStats{}
	if err := r.db.Get(model.KeyStats, stats); err != nil {
		if IsErrKeyNotFound(err) {
			return model.NewUserStats(ownerKey), nil
		}
		return nil, err
	}
	return stats, nil
}

// Set stores the user stats unconditionally.
func (r *StatsRepo) Set(stats *model.UserStats) error {
	stats.Key = model.KeyStats
	return r.db.Set(stats)
}

// UpdateTx reads the current stats, applies fn, and writes the result
// inside a single transaction. Badger aborts with ErrConflict when a
// concurrent writer touched the stats key first; callers retry via
// IsErrConflict.
func (r *StatsRepo) UpdateTx(ownerKey string, fn func(*model.UserStats) error) (*model.UserStats, error) {
	stats := model.NewUserStats(ownerKey)
	err := r.db.Badger().Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(model.KeyStats))
		if err == nil {
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, stats)
			})
			if err != nil {
				return err
			}
			stats.Key = model.KeyStats
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if err := fn(stats); err != nil {
			return err
		}

		stats.Key = model.KeyStats
		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(model.KeyStats), data)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
