package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/tui"
)

// Dashboard command flags.
var (
	dashboardFlagRefresh  time.Duration
	dashboardFlagSessions int
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Open the interactive dashboard",
	Long: `Open a live terminal dashboard showing practice stats, recent
sessions, achievement progress, and upcoming reminders.

Keys:
  r  refresh now
  q  quit

Examples:
  breathe dashboard
  breathe dashboard --refresh 5s`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().DurationVar(&dashboardFlagRefresh, "refresh", time.Second,
		"Refresh interval")
	dashboardCmd.Flags().IntVar(&dashboardFlagSessions, "sessions", 5,
		"Number of recent sessions to show")

	rootCmd.AddCommand(dashboardCmd)
}

// runDashboard handles the dashboard command.
func runDashboard(cmd *cobra.Command, args []string) error {
	ownerKey, err := ctx.UserKey()
	if err != nil {
		return err
	}

	return tui.Run(tui.DashboardConfig{
		SessionRepo:     ctx.SessionRepo,
		StatsRepo:       ctx.StatsRepo,
		AchievementRepo: ctx.AchievementRepo,
		ReminderRepo:    ctx.ReminderRepo,
		OwnerKey:        ownerKey,
		RefreshInterval: dashboardFlagRefresh,
		MaxSessions:     dashboardFlagSessions,
	})
}
