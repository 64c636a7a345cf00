package model

// Config is the singleton settings record stored under KeyConfig. The
// UserKey is minted on first run and stamps custom patterns and
// session records as belonging to this install.
type Config struct {
	Key     string `json:"key"`
	UserKey string `json:"user_key" validate:"required"`

	// DefaultPattern overrides the built-in default for bare
	// "breathe start". Empty means the box preset.
	DefaultPattern string `json:"default_pattern,omitempty"`
}

func (c *Config) SetKey(key string) {
	c.Key = key
}

func (c *Config) GetKey() string {
	return c.Key
}

// NewConfig builds the settings record for a fresh install.
func NewConfig(userKey string) *Config {
	return &Config{
		Key:     KeyConfig,
		UserKey: userKey,
	}
}
