package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/parser"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Manage application configuration",
	Long: `View and modify application settings.

Runtime tunables (tick interval, minimum session length, retry budgets)
come from environment variables and are shown read-only.

Examples:
  breathe config get
  breathe config get default-pattern
  breathe config set default-pattern relaxing`,
	RunE: runConfigGet,
}

// configGetCmd gets configuration values.
var configGetCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Get configuration value",
	Long: `Get a configuration value, or show everything when no key is given.

Keys:
  default-pattern   Pattern used by bare 'breathe start'

Examples:
  breathe config get
  breathe config get default-pattern`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets configuration values.
var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set configuration value",
	Long: `Set a configuration value.

Keys and values:
  default-pattern NAME_OR_SPEC   Pattern for bare 'breathe start'

Examples:
  breathe config set default-pattern relaxing
  breathe config set default-pattern 6-0-8
  breathe config set default-pattern ""   # back to box`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigGet handles the config get command.
func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := ctx.Config()
	if err != nil {
		return err
	}

	key := ""
	if len(args) > 0 {
		key = args[0]
	}

	defaultPattern := cfg.DefaultPattern
	if defaultPattern == "" {
		defaultPattern = "box (built-in default)"
	}

	switch key {
	case "default-pattern":
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"default_pattern": cfg.DefaultPattern,
			})
		}
		ctx.Formatter.Println(defaultPattern)
		return nil

	case "":
		rt := config.Global
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"default_pattern":     cfg.DefaultPattern,
				"tick_interval":       rt.Engine.TickInterval.String(),
				"min_session_seconds": rt.Recorder.MinSessionSeconds,
				"persist_retries":     rt.Recorder.PersistRetries,
				"http_timeout":        rt.HTTP.Timeout.String(),
				"sleep_threshold":     rt.Scheduler.SleepThreshold.String(),
			})
		}
		ctx.Formatter.Println("Settings:")
		ctx.Formatter.Printf("  default-pattern:  %s\n", defaultPattern)
		ctx.Formatter.Println("")
		ctx.Formatter.Println("Runtime (from environment):")
		ctx.Formatter.Printf("  tick interval:        %s\n", rt.Engine.TickInterval)
		ctx.Formatter.Printf("  min session seconds:  %d\n", rt.Recorder.MinSessionSeconds)
		ctx.Formatter.Printf("  persist retries:      %d\n", rt.Recorder.PersistRetries)
		ctx.Formatter.Printf("  http timeout:         %s\n", rt.HTTP.Timeout)
		ctx.Formatter.Printf("  sleep threshold:      %s\n", rt.Scheduler.SleepThreshold)
		return nil

	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// runConfigSet handles the config set command.
func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	switch key {
	case "default-pattern":
		// Verify the pattern resolves before saving it
		if value != "" && !parser.LooksLikePatternSpec(value) {
			if _, err := ctx.PatternRepo.Resolve(value); err != nil {
				return err
			}
		}

		cfg, err := ctx.Config()
		if err != nil {
			return err
		}
		cfg.DefaultPattern = value
		if err := ctx.ConfigRepo.Set(cfg); err != nil {
			return err
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{
				"status":          "updated",
				"default_pattern": value,
			})
		}
		if value == "" {
			ctx.Formatter.Println("Default pattern reset to box")
		} else {
			ctx.Formatter.Printf("Default pattern set to %s\n", value)
		}
		return nil

	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}
