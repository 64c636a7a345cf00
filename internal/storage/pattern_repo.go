package storage

import (
	"sort"

	"github.com/google/uuid"

	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/model"
)

// PatternRepo provides operations for custom Pattern entities.
// Presets live in the model package and are never persisted.
type PatternRepo struct {
	db *DB
}

// NewPatternRepo creates a new pattern repository.
func NewPatternRepo(db *DB) *PatternRepo {
	return &PatternRepo{db: db}
}

// Create creates a new custom pattern with a generated key.
// Pattern names must be unique across presets and custom patterns.
func (r *PatternRepo) Create(pattern *model.Pattern) error {
	if _, ok := model.FindPreset(pattern.Name); ok {
		return errors.ErrPatternExists
	}
	if existing, err := r.GetByName(pattern.Name); err == nil && existing != nil {
		return errors.ErrPatternExists
	}

	// Generate UUID v7 for time-sortable keys
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	pattern.Key = model.GeneratePatternKey(id.String())
	return r.db.Set(pattern)
}

// Get retrieves a pattern by key.
func (r *PatternRepo) Get(key string) (*model.Pattern, error) {
	pattern := &model.Pattern{}
	if err := r.db.Get(key, pattern); err != nil {
		return nil, err
	}
	return pattern, nil
}

// GetByName retrieves a custom pattern by its unique name.
func (r *PatternRepo) GetByName(name string) (*model.Pattern, error) {
	matches, err := GetFilteredByPrefix(r.db, model.PrefixPattern+":", func() *model.Pattern {
		return &model.Pattern{}
	}, func(p *model.Pattern) bool {
		return p.Name == name
	}, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.ErrPatternNotFound
	}
	return matches[0], nil
}

// Resolve finds a pattern by name, checking presets first, then custom
// patterns.
func (r *PatternRepo) Resolve(name string) (model.Pattern, error) {
	if preset, ok := model.FindPreset(name); ok {
		return preset, nil
	}
	custom, err := r.GetByName(name)
	if err != nil {
		return model.Pattern{}, err
	}
	return *custom, nil
}

// Delete removes a custom pattern. Only the owner may delete it; custom
// patterns are immutable, so replacement is delete followed by create.
func (r *PatternRepo) Delete(name, ownerKey string) error {
	if _, ok := model.FindPreset(name); ok {
		return errors.ErrPresetImmutable
	}
	pattern, err := r.GetByName(name)
	if err != nil {
		return err
	}
	if pattern.OwnerKey != ownerKey {
		return errors.ErrNotPatternOwner
	}
	return r.db.Delete(pattern.Key)
}

// List retrieves all custom patterns, sorted by name.
func (r *PatternRepo) List() ([]*model.Pattern, error) {
	patterns, err := GetAllByPrefix(r.db, model.PrefixPattern+":", func() *model.Pattern {
		return &model.Pattern{}
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].Name < patterns[j].Name
	})
	return patterns, nil
}
