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

// Remind command flags.
var (
	remindFlagRepeat  string
	remindFlagNotify  string
	remindRemoveForce bool
	remindListAll     bool
)

// remindCmd represents the remind command.
var remindCmd = &cobra.Command{
	Use:     "remind [TITLE] [WHEN]",
	Aliases: []string{"r", "rem"},
	Short:   "Manage practice reminders",
	Long: `Create and manage practice reminders with natural language times.

When called with arguments, creates a new reminder. Otherwise, lists
pending reminders. Reminders are delivered through configured webhooks
by the background daemon.

Time formats:
  - Relative: +5m, +1h, +2d, +1w
  - Natural language: "tomorrow 7am", "friday 6pm"
  - Date/time: "2026-09-15 07:00"

Examples:
  breathe remind "Morning practice" tomorrow 7am --repeat daily
  breathe remind "Wind down" 9pm
  breathe remind "Box breathing" +2h`,
	RunE: runRemindCreate,
}

// remindListCmd lists reminders.
var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders",
	Long: `List pending reminders. Use --all to include completed reminders.

Examples:
  breathe remind list
  breathe remind list --all`,
	RunE: runRemindList,
}

// remindDoneCmd marks a reminder as complete.
var remindDoneCmd = &cobra.Command{
	Use:   "done ID_OR_TITLE",
	Short: "Mark a reminder as complete",
	Long: `Mark a reminder as completed by ID (prefix) or exact title.
Completing a recurring reminder schedules its next occurrence.

Examples:
  breathe remind done abc123
  breathe remind done "Morning practice"`,
	Args: cobra.ExactArgs(1),
	RunE: runRemindDone,
}

// remindRemoveCmd removes a reminder.
var remindRemoveCmd = &cobra.Command{
	Use:     "remove ID",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a reminder",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemindRemove,
}

func init() {
	// Create reminder flags
	remindCmd.Flags().StringVarP(&remindFlagRepeat, "repeat", "r", "",
		"Recurrence: daily, weekly")
	remindCmd.Flags().StringVar(&remindFlagNotify, "notify", "15m",
		"When to notify before the reminder (e.g. '1h,15m')")

	// List flags
	remindListCmd.Flags().BoolVarP(&remindListAll, "all", "a", false,
		"Include completed reminders")

	// Remove flags
	remindRemoveCmd.Flags().BoolVar(&remindRemoveForce, "force", false,
		"Skip confirmation")

	// Dynamic completion
	remindDoneCmd.ValidArgsFunction = completeReminderArgs
	remindRemoveCmd.ValidArgsFunction = completeReminderArgs

	// Add subcommands
	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindDoneCmd)
	remindCmd.AddCommand(remindRemoveCmd)

	rootCmd.AddCommand(remindCmd)
}

// completeReminderArgs provides completion for reminder IDs.
func completeReminderArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
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

	reminders, err := ctx.ReminderRepo.ListPending()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var suggestions []string
	for _, r := range reminders {
		shortID := r.ShortID()
		if strings.HasPrefix(shortID, toComplete) {
			suggestions = append(suggestions, fmt.Sprintf("%s\t%s", shortID, r.Title))
		}
	}

	return suggestions, cobra.ShellCompDirectiveNoFileComp
}

// runRemindCreate handles creating a new reminder.
func runRemindCreate(cmd *cobra.Command, args []string) error {
	// If no args, show list
	if len(args) == 0 {
		return runRemindList(cmd, args)
	}

	if len(args) < 2 {
		return fmt.Errorf("usage: breathe remind \"TITLE\" WHEN")
	}

	title := args[0]
	if err := validate.Title(title); err != nil {
		return err
	}

	// Parse time from remaining args
	when := parser.ParseDeadlineArgs(args[1:])
	if when.Error != nil {
		return fmt.Errorf("could not parse reminder time: %w", when.Error)
	}

	if remindFlagRepeat != "" && !model.IsValidRepeatRule(remindFlagRepeat) {
		return fmt.Errorf("invalid repeat rule: must be daily or weekly")
	}

	ownerKey, err := ctx.UserKey()
	if err != nil {
		return err
	}

	reminder := model.NewReminder(title, when.Time, ownerKey)
	reminder.Repeat = remindFlagRepeat

	if remindFlagNotify != "" {
		reminder.NotifyBefore = strings.Split(remindFlagNotify, ",")
		for i := range reminder.NotifyBefore {
			reminder.NotifyBefore[i] = strings.TrimSpace(reminder.NotifyBefore[i])
		}
	}

	if err := ctx.ReminderRepo.Create(reminder); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewReminderOutput(reminder))
	}

	ctx.Formatter.Printf("Created reminder: %s\n", reminder.Title)
	ctx.Formatter.Printf("Due: %s (in %s)\n",
		output.FormatTime(reminder.At),
		output.FormatDuration(reminder.TimeUntil()))

	if len(reminder.NotifyBefore) > 0 {
		ctx.Formatter.Printf("Notifications: %s before\n",
			strings.Join(reminder.NotifyBefore, ", "))
	}
	if reminder.Repeat != "" {
		ctx.Formatter.Printf("Repeats: %s\n", reminder.Repeat)
	}

	return nil
}

// runRemindList handles listing reminders.
func runRemindList(cmd *cobra.Command, args []string) error {
	var reminders []*model.Reminder
	var err error

	if remindListAll {
		reminders, err = ctx.ReminderRepo.List()
	} else {
		reminders, err = ctx.ReminderRepo.ListPending()
	}
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		outputs := make([]*output.ReminderOutput, len(reminders))
		for i, r := range reminders {
			outputs[i] = output.NewReminderOutput(r)
		}
		return ctx.Formatter.JSON(map[string]interface{}{
			"reminders": outputs,
			"count":     len(reminders),
		})
	}

	ctx.CLIFormatter().PrintReminderList(reminders)
	return nil
}

// runRemindDone handles marking a reminder as complete.
func runRemindDone(cmd *cobra.Command, args []string) error {
	idOrTitle := args[0]

	// Try by short ID first, then by exact title
	reminder, err := ctx.ReminderRepo.GetByShortID(idOrTitle)
	if err != nil {
		reminder, err = findReminderByTitle(idOrTitle)
		if err != nil {
			return fmt.Errorf("reminder %q not found", idOrTitle)
		}
	}

	if reminder.Completed {
		return fmt.Errorf("reminder is already completed")
	}

	if err := ctx.ReminderRepo.MarkComplete(reminder.Key); err != nil {
		return err
	}

	// Recurring reminders roll forward to the next occurrence
	var next *model.Reminder
	if reminder.IsRecurring() {
		next = model.NewReminder(reminder.Title, reminder.NextAt(), reminder.OwnerKey)
		next.Repeat = reminder.Repeat
		next.NotifyBefore = reminder.NotifyBefore
		if err := ctx.ReminderRepo.Create(next); err != nil {
			ctx.Formatter.Printf("Warning: failed to schedule next occurrence: %v\n", err)
			next = nil
		}
	}

	if ctx.IsJSON() {
		resp := map[string]interface{}{
			"status": "completed",
			"id":     reminder.ShortID(),
			"title":  reminder.Title,
		}
		if next != nil {
			resp["next"] = output.NewReminderOutput(next)
		}
		return ctx.Formatter.JSON(resp)
	}

	ctx.Formatter.Printf("Completed: %s\n", reminder.Title)
	if next != nil {
		ctx.Formatter.Printf("Next occurrence: %s\n", output.FormatTime(next.At))
	}
	return nil
}

// runRemindRemove handles removing a reminder.
func runRemindRemove(cmd *cobra.Command, args []string) error {
	id := args[0]

	reminder, err := ctx.ReminderRepo.GetByShortID(id)
	if err != nil {
		return fmt.Errorf("reminder %q not found", id)
	}

	// Confirmation (skip if --force)
	if !remindRemoveForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove reminder %q? [y/N] ", reminder.Title)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.ReminderRepo.Delete(reminder.Key); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status": "removed",
			"id":     reminder.ShortID(),
			"title":  reminder.Title,
		})
	}

	ctx.Formatter.Printf("Removed: %s\n", reminder.Title)
	return nil
}

// findReminderByTitle looks up a pending reminder by its exact title.
func findReminderByTitle(title string) (*model.Reminder, error) {
	reminders, err := ctx.ReminderRepo.ListPending()
	if err != nil {
		return nil, err
	}
	for _, r := range reminders {
		if r.Title == title {
			return r, nil
		}
	}
	return nil, fmt.Errorf("reminder %q not found", title)
}
