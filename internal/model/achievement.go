package model

import (
	"fmt"
	"time"
)

// Achievement represents a one-time unlock earned by crossing a stats
// threshold. Unlocks are monotonic: once written they are never revoked
// and never duplicated.
type Achievement struct {
	Key         string    `json:"key"`
	AchKey      string    `json:"ach_key" validate:"required,max=32"`
	Name        string    `json:"name" validate:"required,max=64"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	UnlockedAt  time.Time `json:"unlocked_at"`
	OwnerKey    string    `json:"owner_key"`
}

// SetKey sets the database key for this achievement.
func (a *Achievement) SetKey(key string) {
	a.Key = key
}

// GetKey returns the database key for this achievement.
func (a *Achievement) GetKey() string {
	return a.Key
}

// GenerateAchievementKey generates a database key for an achievement.
// Keyed by the achievement identifier, so re-unlocking overwrites
// rather than duplicates.
func GenerateAchievementKey(achKey string) string {
	return fmt.Sprintf("%s:%s", PrefixAchievement, achKey)
}

// NewAchievement creates an unlocked achievement for the given user.
func NewAchievement(achKey, name, icon, description, ownerKey string) *Achievement {
	return &Achievement{
		Key:         GenerateAchievementKey(achKey),
		AchKey:      achKey,
		Name:        name,
		Icon:        icon,
		Description: description,
		UnlockedAt:  time.Now(),
		OwnerKey:    ownerKey,
	}
}
