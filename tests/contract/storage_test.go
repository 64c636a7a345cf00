// Package contract provides contract tests for the storage layer.
// These tests verify that the storage implementation correctly handles
// all CRUD operations and behaves according to its contract.
package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/storage"
)

// =============================================================================
// Test Helpers
// =============================================================================

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

func testPattern(name string) *model.Pattern {
	return model.NewPattern(name, 4, 4, 4, "user-123")
}

// =============================================================================
// Database Connection Tests
// =============================================================================

func TestDB_Open_InMemory(t *testing.T) {
	t.Run("opens with InMemory flag", func(t *testing.T) {
		db, err := storage.Open(storage.Options{InMemory: true})
		require.NoError(t, err)
		assert.NotNil(t, db)
		require.NoError(t, db.Close())
	})

	t.Run("opens with empty Path (defaults to in-memory)", func(t *testing.T) {
		db, err := storage.Open(storage.Options{Path: ""})
		require.NoError(t, err)
		assert.NotNil(t, db)
		require.NoError(t, db.Close())
	})

	t.Run("InMemory flag overrides Path", func(t *testing.T) {
		db, err := storage.Open(storage.Options{
			Path:     "/nonexistent/path",
			InMemory: true,
		})
		require.NoError(t, err)
		assert.NotNil(t, db)
		require.NoError(t, db.Close())
	})

	t.Run("Badger returns underlying database", func(t *testing.T) {
		db := setupTestDB(t)
		assert.NotNil(t, db.Badger())
	})
}

func TestDB_Open_OnDisk(t *testing.T) {
	dir := t.TempDir()

	db, err := storage.Open(storage.Options{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, db.Path())

	pattern := testPattern("persisted")
	pattern.Key = model.GeneratePatternKey("fixed-key")
	require.NoError(t, db.Set(pattern))
	require.NoError(t, db.Close())

	t.Run("data survives reopen", func(t *testing.T) {
		db, err := storage.Open(storage.Options{Path: dir})
		require.NoError(t, err)
		defer db.Close()

		loaded := &model.Pattern{}
		require.NoError(t, db.Get(pattern.Key, loaded))
		assert.Equal(t, "persisted", loaded.Name)
	})
}

// =============================================================================
// CRUD Contract Tests
// =============================================================================

func TestDB_SetGet(t *testing.T) {
	db := setupTestDB(t)

	pattern := testPattern("evening")
	pattern.Key = model.GeneratePatternKey("abc")

	t.Run("set then get round-trips", func(t *testing.T) {
		require.NoError(t, db.Set(pattern))

		loaded := &model.Pattern{}
		require.NoError(t, db.Get(pattern.Key, loaded))
		assert.Equal(t, pattern.Name, loaded.Name)
		assert.Equal(t, pattern.Spec(), loaded.Spec())
		assert.Equal(t, pattern.Key, loaded.GetKey())
	})

	t.Run("get missing key returns not-found", func(t *testing.T) {
		err := db.Get(model.GeneratePatternKey("missing"), &model.Pattern{})
		require.Error(t, err)
		assert.True(t, storage.IsErrKeyNotFound(err))
	})

	t.Run("set overwrites existing value", func(t *testing.T) {
		pattern.Inhale = 6
		require.NoError(t, db.Set(pattern))

		loaded := &model.Pattern{}
		require.NoError(t, db.Get(pattern.Key, loaded))
		assert.Equal(t, 6, loaded.Inhale)
	})
}

func TestDB_Delete(t *testing.T) {
	db := setupTestDB(t)

	pattern := testPattern("short-lived")
	pattern.Key = model.GeneratePatternKey("del")
	require.NoError(t, db.Set(pattern))

	require.NoError(t, db.Delete(pattern.Key))

	t.Run("deleted key is gone", func(t *testing.T) {
		exists, err := db.Exists(pattern.Key)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("deleting a missing key is not an error", func(t *testing.T) {
		assert.NoError(t, db.Delete(model.GeneratePatternKey("never-existed")))
	})
}

func TestDB_Exists(t *testing.T) {
	db := setupTestDB(t)

	pattern := testPattern("present")
	pattern.Key = model.GeneratePatternKey("here")
	require.NoError(t, db.Set(pattern))

	exists, err := db.Exists(pattern.Key)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.Exists(model.GeneratePatternKey("absent"))
	require.NoError(t, err)
	assert.False(t, exists)
}

// =============================================================================
// Prefix Scan Tests
// =============================================================================

func TestDB_PrefixScans(t *testing.T) {
	db := setupTestDB(t)

	for i, name := range []string{"a", "b", "c"} {
		p := testPattern(name)
		p.Key = model.GeneratePatternKey(string(rune('0' + i)))
		require.NoError(t, db.Set(p))
	}
	webhook := model.NewWebhook("hook", "https://example.com/hook", model.ServiceGeneric)
	require.NoError(t, db.Set(webhook))

	t.Run("ListByPrefix isolates key spaces", func(t *testing.T) {
		keys, err := db.ListByPrefix(model.PrefixPattern + ":")
		require.NoError(t, err)
		assert.Len(t, keys, 3)

		keys, err = db.ListByPrefix(model.PrefixWebhook + ":")
		require.NoError(t, err)
		assert.Len(t, keys, 1)

		keys, err = db.ListByPrefix(model.PrefixSession + ":")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("GetAllByPrefix decodes every value", func(t *testing.T) {
		patterns, err := storage.GetAllByPrefix(db, model.PrefixPattern+":", func() *model.Pattern {
			return &model.Pattern{}
		})
		require.NoError(t, err)
		require.Len(t, patterns, 3)
		for _, p := range patterns {
			assert.True(t, p.Custom)
			assert.NotEmpty(t, p.GetKey())
		}
	})

	t.Run("GetFilteredByPrefix applies filter and limit", func(t *testing.T) {
		patterns, err := storage.GetFilteredByPrefix(db, model.PrefixPattern+":", func() *model.Pattern {
			return &model.Pattern{}
		}, func(p *model.Pattern) bool {
			return p.Name != "b"
		}, 0)
		require.NoError(t, err)
		assert.Len(t, patterns, 2)

		limited, err := storage.GetFilteredByPrefix(db, model.PrefixPattern+":", func() *model.Pattern {
			return &model.Pattern{}
		}, func(*model.Pattern) bool { return true }, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

// =============================================================================
// Repository Contract Tests
// =============================================================================

func TestPatternRepo_Contract(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewPatternRepo(db)

	t.Run("create assigns a key", func(t *testing.T) {
		p := testPattern("sunrise")
		require.NoError(t, repo.Create(p))
		assert.NotEmpty(t, p.Key)
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		err := repo.Create(testPattern("sunrise"))
		assert.Error(t, err)
	})

	t.Run("preset names are rejected", func(t *testing.T) {
		err := repo.Create(testPattern(model.DefaultPatternName))
		assert.Error(t, err)
	})

	t.Run("resolve prefers presets", func(t *testing.T) {
		p, err := repo.Resolve("box")
		require.NoError(t, err)
		assert.False(t, p.Custom)
		assert.Equal(t, "4-4-4", p.Spec())
	})

	t.Run("resolve finds custom patterns", func(t *testing.T) {
		p, err := repo.Resolve("sunrise")
		require.NoError(t, err)
		assert.True(t, p.Custom)
	})

	t.Run("resolve unknown name errors", func(t *testing.T) {
		_, err := repo.Resolve("no-such-pattern")
		assert.Error(t, err)
	})

	t.Run("delete removes by name and owner", func(t *testing.T) {
		require.NoError(t, repo.Delete("sunrise", "user-123"))
		_, err := repo.Resolve("sunrise")
		assert.Error(t, err)
	})
}

func TestSessionRepo_Contract(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewSessionRepo(db)
	pattern, _ := model.FindPreset("box")

	base := time.Date(2026, 7, 1, 8, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		record := model.NewSessionRecord("user-123", pattern, 5*time.Minute, base.Add(time.Duration(i)*24*time.Hour))
		record.ElapsedSeconds = 300
		record.Completed = i%2 == 0
		record.CompletedAt = record.StartedAt.Add(5 * time.Minute)
		require.NoError(t, repo.Create(record))
	}

	t.Run("create generates time-sortable keys", func(t *testing.T) {
		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, 5, count)
	})

	t.Run("list is newest first", func(t *testing.T) {
		sessions, err := repo.List()
		require.NoError(t, err)
		require.Len(t, sessions, 5)
		for i := 1; i < len(sessions); i++ {
			assert.True(t, sessions[i].StartedAt.Before(sessions[i-1].StartedAt))
		}
	})

	t.Run("filter by completion", func(t *testing.T) {
		sessions, err := repo.ListFiltered(storage.SessionFilter{CompletedOnly: true})
		require.NoError(t, err)
		assert.Len(t, sessions, 3)
	})

	t.Run("filter by date range", func(t *testing.T) {
		sessions, err := repo.ListFiltered(storage.SessionFilter{
			From:  base.Add(24 * time.Hour),
			Until: base.Add(3 * 24 * time.Hour),
		})
		require.NoError(t, err)
		assert.Len(t, sessions, 2)
	})

	t.Run("limit returns the most recent matches", func(t *testing.T) {
		sessions, err := repo.ListFiltered(storage.SessionFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, base.Add(4*24*time.Hour), sessions[0].StartedAt)
	})

	t.Run("get missing session errors", func(t *testing.T) {
		_, err := repo.Get(model.GenerateSessionKey("00000000-0000-0000-0000-000000000000"))
		assert.Error(t, err)
	})
}

func TestStatsRepo_Contract(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewStatsRepo(db)

	t.Run("get before any write returns zeroed stats", func(t *testing.T) {
		s, err := repo.Get("user-123")
		require.NoError(t, err)
		assert.Equal(t, 0, s.TotalSessions)
		assert.Equal(t, "user-123", s.OwnerKey)
	})

	t.Run("update transaction persists the result", func(t *testing.T) {
		updated, err := repo.UpdateTx("user-123", func(s *model.UserStats) error {
			s.TotalSessions = 7
			s.StreakDays = 3
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, updated.TotalSessions)

		stored, err := repo.Get("user-123")
		require.NoError(t, err)
		assert.Equal(t, 7, stored.TotalSessions)
		assert.Equal(t, 3, stored.StreakDays)
	})

	t.Run("stats use the singleton key", func(t *testing.T) {
		stored, err := repo.Get("user-123")
		require.NoError(t, err)
		assert.Equal(t, model.KeyStats, stored.GetKey())
	})
}

func TestWebhookRepo_Contract(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewWebhookRepo(db)

	t.Run("create and get by name", func(t *testing.T) {
		require.NoError(t, repo.Create(model.NewWebhook("alerts", "https://example.com/hook", model.ServiceSlack)))

		w, err := repo.Get("alerts")
		require.NoError(t, err)
		assert.Equal(t, model.ServiceSlack, w.Service)
		assert.True(t, w.Enabled)
	})

	t.Run("duplicate names are rejected", func(t *testing.T) {
		err := repo.Create(model.NewWebhook("alerts", "https://example.com/other", model.ServiceGeneric))
		assert.Error(t, err)
	})

	t.Run("list enabled excludes disabled hooks", func(t *testing.T) {
		w, err := repo.Get("alerts")
		require.NoError(t, err)
		w.Enabled = false
		require.NoError(t, repo.Update(w))

		enabled, err := repo.ListEnabled()
		require.NoError(t, err)
		assert.Empty(t, enabled)

		all, err := repo.List()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("delete removes the hook", func(t *testing.T) {
		require.NoError(t, repo.Delete("alerts"))
		_, err := repo.Get("alerts")
		assert.Error(t, err)
	})
}

func TestConfigRepo_Contract(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewConfigRepo(db)

	t.Run("first read initializes the singleton", func(t *testing.T) {
		cfg, err := repo.GetOrInit()
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.UserKey)
	})

	t.Run("user key is stable across reads", func(t *testing.T) {
		first, err := repo.GetOrInit()
		require.NoError(t, err)
		second, err := repo.GetOrInit()
		require.NoError(t, err)
		assert.Equal(t, first.UserKey, second.UserKey)
	})

	t.Run("set persists the default pattern", func(t *testing.T) {
		cfg, err := repo.GetOrInit()
		require.NoError(t, err)
		cfg.DefaultPattern = "relaxing"
		require.NoError(t, repo.Set(cfg))

		reloaded, err := repo.GetOrInit()
		require.NoError(t, err)
		assert.Equal(t, "relaxing", reloaded.DefaultPattern)
	})
}
