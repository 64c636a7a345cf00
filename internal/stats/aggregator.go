// Package stats maintains cumulative practice statistics and
// achievement unlocks.
package stats

import (
	"time"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/storage"
)

// Aggregator applies finalized session records to the user's rolling
// statistics and evaluates achievement thresholds.
type Aggregator struct {
	stats        *storage.StatsRepo
	achievements *storage.AchievementRepo
	cfg          config.StatsConfig
}

// New creates an aggregator over the given repositories.
func New(stats *storage.StatsRepo, achievements *storage.AchievementRepo, cfg config.StatsConfig) *Aggregator {
	return &Aggregator{
		stats:        stats,
		achievements: achievements,
		cfg:          cfg,
	}
}

// Accumulate folds one completed session into the stats. It is a pure
// function of (stats, record, now); the aggregator calls it inside the
// storage transaction.
//
// Streak rule: a session exactly one calendar day after the last one
// extends the streak; a second session on the same day changes
// nothing; any larger gap (or no history) restarts the streak at 1.
func Accumulate(s *model.UserStats, record *model.SessionRecord, now time.Time) {
	s.TotalSessions++
	s.TotalMinutes += record.Minutes()

	switch {
	case s.LastSessionDate.IsZero():
		s.StreakDays = 1
	case model.SameDay(s.LastSessionDate, now):
		// No double-count
	case model.DaysBetween(s.LastSessionDate, now) == 1:
		s.StreakDays++
	default:
		s.StreakDays = 1
	}

	if s.StreakDays > s.LongestStreak {
		s.LongestStreak = s.StreakDays
	}
	s.LastSessionDate = now
}

// Apply updates the user's stats from a finalized, persisted session
// record with completed=true, then unlocks any newly earned
// achievements. Conflicting concurrent updates are retried with a
// fresh read-modify-write cycle, bounded by configuration.
func (a *Aggregator) Apply(record *model.SessionRecord, now time.Time) (*model.UserStats, []*model.Achievement, error) {
	if record == nil || !record.IsFinalized() {
		return nil, nil, errors.ErrSessionNotComplete
	}
	if !record.Completed {
		return nil, nil, errors.ErrSessionNotComplete
	}

	// Snapshot earned keys before the update so only newly crossed
	// thresholds unlock below.
	already, err := a.achievements.UnlockedKeys()
	if err != nil {
		return nil, nil, err
	}

	var updated *model.UserStats
	for attempt := 1; ; attempt++ {
		updated, err = a.stats.UpdateTx(record.OwnerKey, func(s *model.UserStats) error {
			Accumulate(s, record, now)
			return nil
		})
		if err == nil {
			break
		}
		if !storage.IsErrConflict(err) || attempt >= a.cfg.MaxUpdateAttempts {
			if storage.IsErrConflict(err) {
				return nil, nil, errors.ErrStatsConflict
			}
			return nil, nil, err
		}
		logging.Logger().Debug("stats update conflict, retrying",
			logging.KeyOperation, "stats.apply",
			logging.KeyCount, attempt,
		)
	}

	unlocked, err := a.evaluate(updated, already, record.OwnerKey)
	if err != nil {
		return updated, nil, err
	}

	logging.Logger().Debug("stats updated",
		logging.KeyStreak, updated.StreakDays,
		logging.KeyCount, updated.TotalSessions,
	)
	return updated, unlocked, nil
}

// evaluate unlocks every definition newly satisfied by the stats.
// Unlocks are idempotent: already-earned keys are skipped, and the
// repository keys unlocks by achievement id so replays cannot
// duplicate entries.
func (a *Aggregator) evaluate(s *model.UserStats, already map[string]bool, ownerKey string) ([]*model.Achievement, error) {
	var unlocked []*model.Achievement
	for _, def := range catalog {
		if already[def.Key] || !def.Met(s) {
			continue
		}
		ach := model.NewAchievement(def.Key, def.Name, def.Icon, def.Description, ownerKey)
		if err := a.achievements.Unlock(ach); err != nil {
			return unlocked, err
		}
		logging.Logger().Info("achievement unlocked",
			logging.KeyAchievement, def.Key,
		)
		unlocked = append(unlocked, ach)
	}
	return unlocked, nil
}

// Rollover breaks a stale streak. It is the pure function behind the
// daily scheduler job: when the last session is more than one day in
// the past the current streak drops to zero. LongestStreak is never
// touched. Returns true when the stats changed.
func Rollover(s *model.UserStats, now time.Time) bool {
	if s.StreakDays == 0 || s.LastSessionDate.IsZero() {
		return false
	}
	if model.DaysBetween(s.LastSessionDate, now) <= 1 {
		return false
	}
	s.StreakDays = 0
	return true
}

// ApplyRollover runs Rollover against the stored stats inside a
// transaction. Called by the scheduler shortly after midnight.
func (a *Aggregator) ApplyRollover(ownerKey string, now time.Time) (*model.UserStats, error) {
	return a.stats.UpdateTx(ownerKey, func(s *model.UserStats) error {
		if Rollover(s, now) {
			logging.Logger().Info("streak expired",
				logging.KeyStreak, 0,
			)
		}
		return nil
	})
}
