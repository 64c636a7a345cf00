// Package integration provides integration tests that exercise the
// storage, recorder, stats, and notification layers together against a
// real in-memory database.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint/breathe/internal/storage"
)

// setupTestDB creates a new in-memory database for testing.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err, "failed to open in-memory database")
	t.Cleanup(func() {
		err := db.Close()
		assert.NoError(t, err, "failed to close database")
	})
	return db
}
