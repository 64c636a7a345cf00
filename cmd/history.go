package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/parser"
	"github.com/stillpoint/breathe/internal/storage"
)

// History command flags.
var (
	historyFlagFrom      string
	historyFlagUntil     string
	historyFlagCompleted bool
	historyFlagLimit     int
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h", "log", "sessions"},
	Short:   "Show session history",
	Long: `Show past breathing sessions, newest first.

Range filters accept natural language dates.

Examples:
  breathe history
  breathe history --limit 10
  breathe history --from "last monday"
  breathe history --from 2026-03-01 --until 2026-04-01
  breathe history --completed`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlagFrom, "from", "",
		"Only sessions started on or after this date")
	historyCmd.Flags().StringVar(&historyFlagUntil, "until", "",
		"Only sessions started before this date")
	historyCmd.Flags().BoolVar(&historyFlagCompleted, "completed", false,
		"Only sessions that reached their target")
	historyCmd.Flags().IntVarP(&historyFlagLimit, "limit", "n", 20,
		"Maximum number of sessions to show (0 for all)")

	rootCmd.AddCommand(historyCmd)
}

// runHistory handles the history command.
func runHistory(cmd *cobra.Command, args []string) error {
	filter := storage.SessionFilter{
		CompletedOnly: historyFlagCompleted,
		Limit:         historyFlagLimit,
	}

	if historyFlagFrom != "" {
		parsed := parser.ParseDate(historyFlagFrom)
		if parsed.Error != nil {
			return fmt.Errorf("invalid --from date: %w", parsed.Error)
		}
		filter.From = parsed.Time
	}
	if historyFlagUntil != "" {
		parsed := parser.ParseDate(historyFlagUntil)
		if parsed.Error != nil {
			return fmt.Errorf("invalid --until date: %w", parsed.Error)
		}
		filter.Until = parsed.Time
	}

	sessions, err := ctx.SessionRepo.ListFiltered(filter)
	if err != nil {
		return err
	}

	total, err := ctx.SessionRepo.Count()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintSessions(sessions, total)
	}

	ctx.CLIFormatter().PrintSessionHistory(sessions)
	return nil
}
