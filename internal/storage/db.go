// Package storage persists breathe's patterns, sessions, stats, and
// reminders in an embedded Badger store.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
)

// AppName names the data directory under XDG_DATA_HOME.
const AppName = "breathe"

// DB is the handle the repositories share. One DB serves both the CLI
// and the daemon, though never simultaneously since Badger takes an
// exclusive directory lock.
type DB struct {
	db   *badger.DB
	path string
}

// Options selects where the store lives.
type Options struct {
	// Path is the database directory. Empty means in-memory.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath is the on-disk location used when BREATHE_DATABASE is
// unset.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open creates or reopens the store described by opts.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, err
		}
		path = opts.Path
		badgerOpts = badger.DefaultOptions(path)
	}

	// Badger's default logger is chatty at INFO.
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &DB{db: db, path: path}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the store directory, empty for in-memory stores.
func (d *DB) Path() string {
	return d.path
}

// Badger exposes the raw store for callers that need their own
// transactions, such as the stats aggregator's conflict-checked
// updates.
func (d *DB) Badger() *badger.DB {
	return d.db
}
