package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/storage"
)

// =============================================================================
// Reminder Lifecycle Tests
// =============================================================================

func TestReminders_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewReminderRepo(db)

	t.Run("empty repo lists nothing", func(t *testing.T) {
		reminders, err := repo.List()
		require.NoError(t, err)
		assert.Empty(t, reminders)
	})

	t.Run("created reminders come back pending", func(t *testing.T) {
		morning := model.NewReminder("morning practice", time.Now().Add(time.Hour), "user-123")
		evening := model.NewReminder("evening wind-down", time.Now().Add(12*time.Hour), "user-123")
		evening.Repeat = "daily"
		require.NoError(t, repo.Create(morning))
		require.NoError(t, repo.Create(evening))

		pending, err := repo.ListPending()
		require.NoError(t, err)
		assert.Len(t, pending, 2)

		for _, r := range pending {
			assert.True(t, r.IsPending())
			assert.NotEmpty(t, r.Key)
		}
	})

	t.Run("default notification interval is set", func(t *testing.T) {
		r := model.NewReminder("check in", time.Now().Add(time.Hour), "user-123")
		assert.Equal(t, []string{"15m"}, r.NotifyBefore)
	})
}

func TestReminders_ShortIDLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewReminderRepo(db)

	reminder := model.NewReminder("afternoon reset", time.Now().Add(3*time.Hour), "user-123")
	require.NoError(t, repo.Create(reminder))

	found, err := repo.GetByShortID(reminder.ShortID())
	require.NoError(t, err)
	assert.Equal(t, reminder.Key, found.Key)
	assert.Equal(t, "afternoon reset", found.Title)

	_, err = repo.GetByShortID("zzzzzz")
	assert.Error(t, err)
}

func TestReminders_MarkComplete(t *testing.T) {
	db := setupTestDB(t)
	repo := storage.NewReminderRepo(db)

	reminder := model.NewReminder("one breath", time.Now().Add(time.Hour), "user-123")
	require.NoError(t, repo.Create(reminder))

	require.NoError(t, repo.MarkComplete(reminder.Key))

	t.Run("completed reminders leave the pending list", func(t *testing.T) {
		pending, err := repo.ListPending()
		require.NoError(t, err)
		assert.Empty(t, pending)

		all, err := repo.List()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.True(t, all[0].Completed)
		assert.False(t, all[0].CompletedAt.IsZero())
	})

	t.Run("unknown key errors", func(t *testing.T) {
		err := repo.MarkComplete(model.GenerateReminderKey("00000000-0000-0000-0000-000000000000"))
		assert.Error(t, err)
	})
}

// =============================================================================
// Recurrence Tests
// =============================================================================

func TestReminders_Recurrence(t *testing.T) {
	at := time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local)

	t.Run("daily advances one day", func(t *testing.T) {
		r := model.NewReminder("daily", at, "user-123")
		r.Repeat = "daily"
		assert.True(t, r.IsRecurring())
		assert.Equal(t, at.AddDate(0, 0, 1), r.NextAt())
	})

	t.Run("weekly advances seven days", func(t *testing.T) {
		r := model.NewReminder("weekly", at, "user-123")
		r.Repeat = "weekly"
		assert.Equal(t, at.AddDate(0, 0, 7), r.NextAt())
	})

	t.Run("one-shot does not advance", func(t *testing.T) {
		r := model.NewReminder("once", at, "user-123")
		assert.False(t, r.IsRecurring())
		assert.Equal(t, at, r.NextAt())
	})

	t.Run("completing a recurring reminder spawns the next occurrence", func(t *testing.T) {
		db := setupTestDB(t)
		repo := storage.NewReminderRepo(db)

		r := model.NewReminder("daily practice", at, "user-123")
		r.Repeat = "daily"
		require.NoError(t, repo.Create(r))
		require.NoError(t, repo.MarkComplete(r.Key))

		next := model.NewReminder(r.Title, r.NextAt(), r.OwnerKey)
		next.Repeat = r.Repeat
		next.NotifyBefore = r.NotifyBefore
		require.NoError(t, repo.Create(next))

		pending, err := repo.ListPending()
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, at.AddDate(0, 0, 1), pending[0].At)
		assert.Equal(t, "daily", pending[0].Repeat)
	})
}

// =============================================================================
// Due Window Tests
// =============================================================================

func TestReminders_DueWindows(t *testing.T) {
	t.Run("past reminder is due", func(t *testing.T) {
		r := model.NewReminder("overdue", time.Now().Add(-time.Minute), "user-123")
		assert.True(t, r.IsDue())
	})

	t.Run("future reminder within window", func(t *testing.T) {
		r := model.NewReminder("soon", time.Now().Add(10*time.Minute), "user-123")
		assert.False(t, r.IsDue())
		assert.True(t, r.IsDueWithin(15*time.Minute))
		assert.False(t, r.IsDueWithin(5*time.Minute))
	})
}
