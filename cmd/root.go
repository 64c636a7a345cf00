// Package cmd provides the CLI commands for Breathe.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/errors"
	"github.com/stillpoint/breathe/internal/output"
	"github.com/stillpoint/breathe/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "breathe",
	Short: "A terminal breathing and mindfulness companion",
	Long: `Breathe is a command-line breathing trainer. It guides you through
timed inhale/hold/exhale cycles, records your sessions, and tracks
streaks and achievements over time.

Examples:
  breathe start
  breathe start relaxing --for 10m
  breathe start 4-7-8
  breathe stats
  breathe history --limit 10`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsRuntime(cmd) {
			return nil
		}

		// Parse format flag
		var format output.Format
		switch flagFormat {
		case "json":
			format = output.FormatJSON
		case "plain":
			format = output.FormatPlain
		default:
			format = output.FormatCLI
		}

		// Parse color flag
		var colorMode output.ColorMode
		switch flagColor {
		case "always":
			colorMode = output.ColorAlways
		case "never":
			colorMode = output.ColorNever
		default:
			colorMode = output.ColorAuto
		}

		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show practice stats
		return runStats(cmd, args)
	},
}

// skipsRuntime reports whether a command runs without the database.
// Daemon lifecycle commands manage a separate process and must not
// take the store lock; the foreground daemon opens it itself.
func skipsRuntime(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "completion", "help", "version", "daemon":
		return true
	case "stop", "status", "logs":
		return cmd.Parent() != nil && cmd.Parent().Name() == "daemon"
	case "start":
		return cmd.Parent() != nil && cmd.Parent().Name() == "daemon" && !daemonStartFlagForeground
	}
	return false
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("breathe %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil && ctx.IsJSON() {
		ctx.JSONFormatter().PrintError("error", err.Error(), errors.GetSuggestion(err))
	} else {
		msg := "Error: " + err.Error()
		if suggestion := errors.GetSuggestion(err); suggestion != "" {
			msg += "\n  " + suggestion
		}
		os.Stderr.WriteString(msg + "\n")
	}
	os.Exit(1)
}
