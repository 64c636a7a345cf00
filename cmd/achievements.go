package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/output"
	"github.com/stillpoint/breathe/internal/stats"
)

// achievementsCmd represents the achievements command.
var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"a", "badges"},
	Short:   "Show unlocked achievements",
	Long: `Show unlocked achievements and what is still locked.

Achievements unlock from total sessions, total practice minutes, and
daily streaks. Once unlocked they never revoke.`,
	RunE: runAchievements,
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}

// runAchievements handles the achievements command.
func runAchievements(cmd *cobra.Command, args []string) error {
	unlocked, err := ctx.AchievementRepo.List()
	if err != nil {
		return err
	}

	unlockedKeys, err := ctx.AchievementRepo.UnlockedKeys()
	if err != nil {
		return err
	}

	var lockedNames []string
	for _, def := range stats.Catalog() {
		if !unlockedKeys[def.Key] {
			lockedNames = append(lockedNames, def.Name)
		}
	}

	if ctx.IsJSON() {
		outputs := make([]*output.AchievementOutput, len(unlocked))
		for i, a := range unlocked {
			outputs[i] = output.NewAchievementOutput(a)
		}
		return ctx.Formatter.JSON(output.AchievementsResponse{
			Unlocked: outputs,
			Locked:   lockedNames,
		})
	}

	ctx.CLIFormatter().PrintAchievements(unlocked, lockedNames)
	return nil
}
