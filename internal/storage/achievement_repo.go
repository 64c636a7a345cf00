package storage

import (
	"sort"

	"github.com/stillpoint/breathe/internal/model"
)

// AchievementRepo provides operations for Achievement entities.
type AchievementRepo struct {
	db *DB
}

// NewAchievementRepo creates a new achievement repository.
func NewAchievementRepo(db *DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// Unlock records an achievement. Keys are derived from the achievement
// identifier, so unlocking twice overwrites the same record and the
// original unlock time is preserved.
func (r *AchievementRepo) Unlock(ach *model.Achievement) error {
	existing := &model.Achievement{}
	err := r.db.Get(model.GenerateAchievementKey(ach.AchKey), existing)
	if err == nil {
		// Already unlocked, keep the first unlock time
		return nil
	}
	if !IsErrKeyNotFound(err) {
		return err
	}
	ach.Key = model.GenerateAchievementKey(ach.AchKey)
	return r.db.Set(ach)
}

// IsUnlocked checks whether the achievement has been earned.
func (r *AchievementRepo) IsUnlocked(achKey string) (bool, error) {
	return r.db.Exists(model.GenerateAchievementKey(achKey))
}

// UnlockedKeys returns the set of earned achievement identifiers.
func (r *AchievementRepo) UnlockedKeys() (map[string]bool, error) {
	achievements, err := r.List()
	if err != nil {
		return nil, err
	}
	keys := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		keys[a.AchKey] = true
	}
	return keys, nil
}

// List retrieves all unlocked achievements, oldest first.
func (r *AchievementRepo) List() ([]*model.Achievement, error) {
	achievements, err := GetAllByPrefix(r.db, model.PrefixAchievement+":", func() *model.Achievement {
		return &model.Achievement{}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(achievements, func(i, j int) bool {
		return achievements[i].UnlockedAt.Before(achievements[j].UnlockedAt)
	})
	return achievements, nil
}
