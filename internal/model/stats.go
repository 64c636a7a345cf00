package model

import (
	"math"
	"time"
)

// UserStats holds the rolling practice statistics for a user.
// It is mutated exclusively by the stats aggregator; LongestStreak and
// TotalMinutes only ever grow, and LongestStreak >= StreakDays holds
// after every update.
type UserStats struct {
	Key             string    `json:"key"`
	OwnerKey        string    `json:"owner_key"`
	TotalSessions   int       `json:"total_sessions"`
	TotalMinutes    int       `json:"total_minutes"`
	StreakDays      int       `json:"streak_days"`
	LongestStreak   int       `json:"longest_streak"`
	LastSessionDate time.Time `json:"last_session_date,omitempty"`
}

// SetKey sets the database key for these stats.
func (s *UserStats) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for these stats.
func (s *UserStats) GetKey() string {
	return s.Key
}

// NewUserStats returns zeroed stats for the given user.
func NewUserStats(ownerKey string) *UserStats {
	return &UserStats{
		Key:      KeyStats,
		OwnerKey: ownerKey,
	}
}

// PracticedOn returns true if the last recorded session fell on the
// same calendar day as t (server-local time).
func (s *UserStats) PracticedOn(t time.Time) bool {
	return !s.LastSessionDate.IsZero() && SameDay(s.LastSessionDate, t)
}

// SameDay returns true if a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayStart truncates t to local midnight.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar-day boundaries between a
// and b. Same day yields 0, consecutive days 1. Rounding keeps DST
// transitions from shifting the count.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(DayStart(b).Sub(DayStart(a)).Hours() / 24))
}
