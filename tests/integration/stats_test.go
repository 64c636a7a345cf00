package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/stats"
	"github.com/stillpoint/breathe/internal/storage"
)

// =============================================================================
// Stats Test Helpers
// =============================================================================

// finalizedRecord builds a finalized, completed session record ending at
// the given time.
func finalizedRecord(elapsedSeconds int, end time.Time) *model.SessionRecord {
	pattern, _ := model.FindPreset("box")
	record := model.NewSessionRecord("user-123", pattern, time.Duration(elapsedSeconds)*time.Second, end.Add(-time.Duration(elapsedSeconds)*time.Second))
	record.ElapsedSeconds = elapsedSeconds
	record.Completed = true
	record.CompletedAt = end
	return record
}

func newAggregator(db *storage.DB) (*stats.Aggregator, *storage.StatsRepo, *storage.AchievementRepo) {
	statsRepo := storage.NewStatsRepo(db)
	achievementRepo := storage.NewAchievementRepo(db)
	return stats.New(statsRepo, achievementRepo, statsConfig()), statsRepo, achievementRepo
}

// =============================================================================
// Streak Accumulation Tests
// =============================================================================

func TestStatsAggregation_StreakAcrossDays(t *testing.T) {
	db := setupTestDB(t)
	agg, statsRepo, _ := newAggregator(db)

	day1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	t.Run("first session starts streak at 1", func(t *testing.T) {
		updated, _, err := agg.Apply(finalizedRecord(300, day1), day1)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.StreakDays)
		assert.Equal(t, 1, updated.LongestStreak)
		assert.Equal(t, 5, updated.TotalMinutes)
	})

	t.Run("second session same day does not extend streak", func(t *testing.T) {
		later := day1.Add(10 * time.Hour)
		updated, _, err := agg.Apply(finalizedRecord(120, later), later)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.TotalSessions)
		assert.Equal(t, 1, updated.StreakDays)
		assert.Equal(t, 7, updated.TotalMinutes)
	})

	t.Run("next day extends streak", func(t *testing.T) {
		day2 := day1.Add(24 * time.Hour)
		updated, _, err := agg.Apply(finalizedRecord(300, day2), day2)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.StreakDays)
		assert.Equal(t, 2, updated.LongestStreak)
	})

	t.Run("gap resets streak but keeps longest", func(t *testing.T) {
		day5 := day1.Add(4 * 24 * time.Hour)
		updated, _, err := agg.Apply(finalizedRecord(300, day5), day5)
		require.NoError(t, err)
		assert.Equal(t, 1, updated.StreakDays)
		assert.Equal(t, 2, updated.LongestStreak)
	})

	t.Run("stats survive a reload", func(t *testing.T) {
		stored, err := statsRepo.Get("user-123")
		require.NoError(t, err)
		assert.Equal(t, 4, stored.TotalSessions)
		assert.Equal(t, 2, stored.LongestStreak)
	})
}

func TestStatsAggregation_RejectsIncompleteRecords(t *testing.T) {
	db := setupTestDB(t)
	agg, statsRepo, _ := newAggregator(db)
	now := time.Now()

	t.Run("nil record", func(t *testing.T) {
		_, _, err := agg.Apply(nil, now)
		assert.Error(t, err)
	})

	t.Run("not finalized", func(t *testing.T) {
		pattern, _ := model.FindPreset("box")
		record := model.NewSessionRecord("user-123", pattern, time.Minute, now)
		_, _, err := agg.Apply(record, now)
		assert.Error(t, err)
	})

	t.Run("partial session", func(t *testing.T) {
		record := finalizedRecord(60, now)
		record.Completed = false
		_, _, err := agg.Apply(record, now)
		assert.Error(t, err)
	})

	s, err := statsRepo.Get("user-123")
	require.NoError(t, err)
	assert.Equal(t, 0, s.TotalSessions, "rejected records must not touch stats")
}

// =============================================================================
// Achievement Unlock Tests
// =============================================================================

func TestStatsAggregation_AchievementUnlocks(t *testing.T) {
	db := setupTestDB(t)
	agg, _, achievementRepo := newAggregator(db)

	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)

	// Ten sessions across ten consecutive days, ten minutes each.
	var lastUnlocks []*model.Achievement
	for i := 0; i < 10; i++ {
		now := day.Add(time.Duration(i) * 24 * time.Hour)
		_, unlocks, err := agg.Apply(finalizedRecord(600, now), now)
		require.NoError(t, err)
		lastUnlocks = unlocks
	}

	t.Run("final session unlocks the 10-session badge", func(t *testing.T) {
		keys := make([]string, 0, len(lastUnlocks))
		for _, a := range lastUnlocks {
			keys = append(keys, a.AchKey)
		}
		assert.Contains(t, keys, "committed")
	})

	t.Run("streak and minute thresholds crossed along the way", func(t *testing.T) {
		unlocked, err := achievementRepo.UnlockedKeys()
		require.NoError(t, err)
		assert.True(t, unlocked["first-breath"])
		assert.True(t, unlocked["three-day-flow"])
		assert.True(t, unlocked["week-of-calm"])
		assert.True(t, unlocked["hour-of-stillness"], "100 total minutes crosses the 60-minute mark")
		assert.False(t, unlocked["centurion"])
		assert.False(t, unlocked["deep-well"])
	})

	t.Run("unlocks are not repeated", func(t *testing.T) {
		now := day.Add(10 * 24 * time.Hour)
		_, unlocks, err := agg.Apply(finalizedRecord(600, now), now)
		require.NoError(t, err)
		for _, a := range unlocks {
			assert.NotEqual(t, "committed", a.AchKey)
			assert.NotEqual(t, "first-breath", a.AchKey)
		}
	})
}

func TestStatsAggregation_BrokenStreakKeepsStreakBadges(t *testing.T) {
	db := setupTestDB(t)
	agg, _, achievementRepo := newAggregator(db)

	day := time.Date(2026, 4, 1, 7, 0, 0, 0, time.Local)
	for i := 0; i < 3; i++ {
		now := day.Add(time.Duration(i) * 24 * time.Hour)
		_, _, err := agg.Apply(finalizedRecord(300, now), now)
		require.NoError(t, err)
	}

	// Break the streak with a week-long gap.
	later := day.Add(10 * 24 * time.Hour)
	updated, _, err := agg.Apply(finalizedRecord(300, later), later)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.StreakDays)

	unlocked, err := achievementRepo.IsUnlocked("three-day-flow")
	require.NoError(t, err)
	assert.True(t, unlocked, "earned streak badges survive a broken streak")
}

// =============================================================================
// Rollover Tests
// =============================================================================

func TestStatsAggregation_Rollover(t *testing.T) {
	db := setupTestDB(t)
	agg, statsRepo, _ := newAggregator(db)

	day := time.Date(2026, 5, 1, 20, 0, 0, 0, time.Local)
	for i := 0; i < 4; i++ {
		now := day.Add(time.Duration(i) * 24 * time.Hour)
		_, _, err := agg.Apply(finalizedRecord(300, now), now)
		require.NoError(t, err)
	}

	t.Run("rollover within grace period keeps streak", func(t *testing.T) {
		// Early next morning the last session is one calendar day old.
		updated, err := agg.ApplyRollover("user-123", day.Add(3*24*time.Hour).Add(9*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 4, updated.StreakDays)
	})

	t.Run("rollover after a missed day zeroes the streak", func(t *testing.T) {
		updated, err := agg.ApplyRollover("user-123", day.Add(6*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 0, updated.StreakDays)
		assert.Equal(t, 4, updated.LongestStreak, "longest streak is never rolled back")
	})

	t.Run("rollover is idempotent", func(t *testing.T) {
		updated, err := agg.ApplyRollover("user-123", day.Add(7*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 0, updated.StreakDays)

		stored, err := statsRepo.Get("user-123")
		require.NoError(t, err)
		assert.Equal(t, 0, stored.StreakDays)
	})
}
