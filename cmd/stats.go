package cmd

import (
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show practice statistics",
	Long: `Show lifetime practice statistics: total sessions, total time,
and the current and longest daily streaks.

Examples:
  breathe stats
  breathe stats --format json`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// runStats handles the stats command.
func runStats(cmd *cobra.Command, args []string) error {
	ownerKey, err := ctx.UserKey()
	if err != nil {
		return err
	}

	stats, err := ctx.StatsRepo.Get(ownerKey)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStats(stats)
	}

	ctx.CLIFormatter().PrintStats(stats)
	return nil
}
