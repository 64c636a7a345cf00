package stats

import "github.com/stillpoint/breathe/internal/model"

// ThresholdType identifies which counter an achievement watches.
type ThresholdType string

const (
	ThresholdSessions ThresholdType = "sessions"
	ThresholdStreak   ThresholdType = "streak"
	ThresholdMinutes  ThresholdType = "minutes"
)

// Definition describes one unlockable achievement.
type Definition struct {
	Key         string
	Name        string
	Icon        string
	Description string
	Type        ThresholdType
	Count       int
}

// Met returns true if the stats satisfy the threshold.
func (d Definition) Met(s *model.UserStats) bool {
	switch d.Type {
	case ThresholdSessions:
		return s.TotalSessions >= d.Count
	case ThresholdStreak:
		// Longest streak counts: a broken streak does not revoke
		return s.LongestStreak >= d.Count
	case ThresholdMinutes:
		return s.TotalMinutes >= d.Count
	default:
		return false
	}
}

// catalog is the built-in achievement set, ordered by difficulty
// within each threshold type.
var catalog = []Definition{
	{Key: "first-breath", Name: "First Breath", Icon: "🌱", Description: "Complete your first session", Type: ThresholdSessions, Count: 1},
	{Key: "committed", Name: "Committed", Icon: "🌿", Description: "Complete 10 sessions", Type: ThresholdSessions, Count: 10},
	{Key: "dedicated", Name: "Dedicated", Icon: "🌳", Description: "Complete 50 sessions", Type: ThresholdSessions, Count: 50},
	{Key: "centurion", Name: "Centurion", Icon: "🏛️", Description: "Complete 100 sessions", Type: ThresholdSessions, Count: 100},
	{Key: "three-day-flow", Name: "Three-Day Flow", Icon: "🔥", Description: "Practice 3 days in a row", Type: ThresholdStreak, Count: 3},
	{Key: "week-of-calm", Name: "Week of Calm", Icon: "🌊", Description: "Practice 7 days in a row", Type: ThresholdStreak, Count: 7},
	{Key: "monthly-master", Name: "Monthly Master", Icon: "🌕", Description: "Practice 30 days in a row", Type: ThresholdStreak, Count: 30},
	{Key: "hour-of-stillness", Name: "Hour of Stillness", Icon: "⏳", Description: "Breathe for 60 total minutes", Type: ThresholdMinutes, Count: 60},
	{Key: "deep-well", Name: "Deep Well", Icon: "🕳️", Description: "Breathe for 500 total minutes", Type: ThresholdMinutes, Count: 500},
}

// Catalog returns the built-in achievement definitions.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// FindDefinition returns the definition with the given key.
func FindDefinition(key string) (Definition, bool) {
	for _, d := range catalog {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}
