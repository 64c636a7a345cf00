package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/output"
	"github.com/stillpoint/breathe/internal/parser"
	"github.com/stillpoint/breathe/internal/runtime"
	"github.com/stillpoint/breathe/internal/validate"
)

// Pattern command flags.
var (
	patternRemoveFlagForce bool
)

// patternCmd represents the pattern command.
var patternCmd = &cobra.Command{
	Use:     "pattern [command]",
	Aliases: []string{"p", "patterns"},
	Short:   "Manage breathing patterns",
	Long: `List, create, and remove breathing patterns.

Built-in presets (box, relaxing, calm, deep) are always available and
cannot be removed. Custom patterns are saved by name.

Examples:
  breathe pattern list
  breathe pattern add coherent 5-0-5
  breathe pattern remove coherent`,
	RunE: runPatternList,
}

// patternListCmd lists all patterns.
var patternListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available patterns",
	RunE:  runPatternList,
}

// patternAddCmd creates a custom pattern.
var patternAddCmd = &cobra.Command{
	Use:   "add NAME SPEC",
	Short: "Create a custom pattern",
	Long: `Create a custom pattern from an inhale-hold-exhale triple.

Examples:
  breathe pattern add coherent 5-0-5
  breathe pattern add wind-down 4-6-8`,
	Args: cobra.ExactArgs(2),
	RunE: runPatternAdd,
}

// patternRemoveCmd removes a custom pattern.
var patternRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a custom pattern",
	Args:    cobra.ExactArgs(1),
	RunE:    runPatternRemove,
}

func init() {
	patternRemoveCmd.Flags().BoolVar(&patternRemoveFlagForce, "force", false,
		"Skip confirmation")

	patternRemoveCmd.ValidArgsFunction = completePatternArgs

	patternCmd.AddCommand(patternListCmd)
	patternCmd.AddCommand(patternAddCmd)
	patternCmd.AddCommand(patternRemoveCmd)

	rootCmd.AddCommand(patternCmd)
}

// completePatternArgs provides completion for pattern names.
func completePatternArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Initialize context for completion
	if ctx == nil {
		opts := runtime.DefaultOptions()
		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer ctx.Close()
	}

	var names []string
	for _, p := range model.Presets() {
		if strings.HasPrefix(p.Name, toComplete) {
			names = append(names, fmt.Sprintf("%s\t%s", p.Name, p.Spec()))
		}
	}

	custom, err := ctx.PatternRepo.List()
	if err != nil {
		return names, cobra.ShellCompDirectiveNoFileComp
	}
	for _, p := range custom {
		if strings.HasPrefix(p.Name, toComplete) {
			names = append(names, fmt.Sprintf("%s\t%s", p.Name, p.Spec()))
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

// runPatternList handles the pattern list command.
func runPatternList(cmd *cobra.Command, args []string) error {
	custom, err := ctx.PatternRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		outputs := make([]*output.PatternOutput, 0, len(custom)+4)
		for _, p := range model.Presets() {
			outputs = append(outputs, output.NewPatternOutput(p))
		}
		for _, p := range custom {
			outputs = append(outputs, output.NewPatternOutput(*p))
		}
		return ctx.Formatter.JSON(output.PatternsResponse{Patterns: outputs})
	}

	ctx.CLIFormatter().PrintPatternList(model.Presets(), custom)
	return nil
}

// runPatternAdd handles the pattern add command.
func runPatternAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	specArg := args[1]

	if err := validate.Name(name); err != nil {
		return err
	}

	spec := parser.ParsePatternSpec(specArg)
	if !spec.Valid {
		return fmt.Errorf("could not parse pattern %q (expected a triple like 4-7-8)", specArg)
	}
	if err := validate.PatternDurations(spec.Inhale, spec.Hold, spec.Exhale); err != nil {
		return err
	}

	ownerKey, err := ctx.UserKey()
	if err != nil {
		return err
	}

	pattern := model.NewPattern(name, spec.Inhale, spec.Hold, spec.Exhale, ownerKey)
	if err := ctx.PatternRepo.Create(pattern); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewPatternOutput(*pattern))
	}

	ctx.Formatter.Printf("Created pattern: %s (%s)\n", pattern.Name, pattern.Spec())
	ctx.Formatter.Printf("Start with: breathe start %s\n", pattern.Name)
	return nil
}

// runPatternRemove handles the pattern remove command.
func runPatternRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	ownerKey, err := ctx.UserKey()
	if err != nil {
		return err
	}

	// Confirmation (skip if --force)
	if !patternRemoveFlagForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove pattern %q? [y/N] ", name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.PatternRepo.Delete(name, ownerKey); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":  "removed",
			"pattern": name,
		})
	}

	ctx.Formatter.Printf("Removed pattern: %s\n", name)
	return nil
}
