package storage

import (
	"github.com/google/uuid"

	"github.com/stillpoint/breathe/internal/model"
)

// ConfigRepo provides operations for the singleton Config entity.
type ConfigRepo struct {
	db *DB
}

// NewConfigRepo creates a new config repository.
func NewConfigRepo(db *DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// GetOrInit retrieves the config, creating it with a fresh user key on
// first run.
func (r *ConfigRepo) GetOrInit() (*model.Config, error) {
	config := &model.Config{}
	err := r.db.Get(model.KeyConfig, config)
	if err == nil {
		return config, nil
	}
	if !IsErrKeyNotFound(err) {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	config = model.NewConfig(id.String())
	if err := r.db.Set(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Set stores changes to the config.
func (r *ConfigRepo) Set(config *model.Config) error {
	return r.db.Set(config)
}
