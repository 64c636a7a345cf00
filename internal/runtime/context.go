// Package runtime provides application runtime context for Breathe.
package runtime

import (
	"os"

	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/output"
	"github.com/stillpoint/breathe/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter

	// Repositories
	PatternRepo     *storage.PatternRepo
	SessionRepo     *storage.SessionRepo
	StatsRepo       *storage.StatsRepo
	AchievementRepo *storage.AchievementRepo
	ReminderRepo    *storage.ReminderRepo
	WebhookRepo     *storage.WebhookRepo
	ConfigRepo      *storage.ConfigRepo

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath    string
	InMemory  bool
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:    storage.DefaultPath(),
		InMemory:  false,
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
		Debug:     false,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	// Check for environment variable override
	if envPath := os.Getenv("BREATHE_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	if opts.Debug {
		logging.InitDebug()
	}

	// Open database
	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	// Create formatter
	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		DB:              db,
		Formatter:       formatter,
		PatternRepo:     storage.NewPatternRepo(db),
		SessionRepo:     storage.NewSessionRepo(db),
		StatsRepo:       storage.NewStatsRepo(db),
		AchievementRepo: storage.NewAchievementRepo(db),
		ReminderRepo:    storage.NewReminderRepo(db),
		WebhookRepo:     storage.NewWebhookRepo(db),
		ConfigRepo:      storage.NewConfigRepo(db),
		Debug:           opts.Debug,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Config loads the user configuration, creating it on first run.
func (c *Context) Config() (*model.Config, error) {
	return c.ConfigRepo.GetOrInit()
}

// UserKey returns the owner key for the local user.
func (c *Context) UserKey() (string, error) {
	cfg, err := c.Config()
	if err != nil {
		return "", err
	}
	return cfg.UserKey, nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
