package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/notify"
	"github.com/stillpoint/breathe/internal/runtime"
	"github.com/stillpoint/breathe/internal/validate"
)

var (
	webhookAddFlagService  string
	webhookRemoveFlagForce bool
	webhookTestFlagAll     bool
)

var webhookCmd = &cobra.Command{
	Use:     "webhook [command]",
	Aliases: []string{"w", "wh", "hook"},
	Short:   "Configure notification webhooks",
	Long: `Configure webhooks for Discord, Slack, or custom endpoints.

Webhooks receive practice reminders and achievement unlocks from the
background daemon.

Examples:
  breathe webhook add discord https://discord.com/api/webhooks/...
  breathe webhook add slack https://hooks.slack.com/services/...
  breathe webhook list
  breathe webhook test discord
  breathe webhook disable slack
  breathe webhook remove discord`,
	RunE: runWebhookList,
}

var webhookAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Add a new webhook",
	Long: `Add a webhook for receiving notifications.

The service is auto-detected from the URL:
  - Discord: discord.com/api/webhooks/...
  - Slack:   hooks.slack.com/services/...
  - Generic: any other URL

Examples:
  breathe webhook add discord https://discord.com/api/webhooks/123/abc
  breathe webhook add my-hook https://example.com/hook --service generic`,
	Args: cobra.ExactArgs(2),
	RunE: runWebhookAdd,
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all webhooks",
	RunE:  runWebhookList,
}

var webhookTestCmd = &cobra.Command{
	Use:   "test [NAME]",
	Short: "Test a webhook by sending a test notification",
	Long: `Send a test notification to verify webhook configuration.

Examples:
  breathe webhook test discord
  breathe webhook test --all`,
	RunE: runWebhookTest,
}

var webhookRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a webhook",
	Args:    cobra.ExactArgs(1),
	RunE:    runWebhookRemove,
}

var webhookEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookEnable,
}

var webhookDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE:  runWebhookDisable,
}

func init() {
	webhookAddCmd.Flags().StringVarP(&webhookAddFlagService, "service", "s", "",
		"Webhook service: discord, slack, generic (auto-detected from URL if not specified)")
	webhookRemoveCmd.Flags().BoolVar(&webhookRemoveFlagForce, "force", false,
		"Skip confirmation")
	webhookTestCmd.Flags().BoolVarP(&webhookTestFlagAll, "all", "a", false,
		"Test all enabled webhooks")

	for _, c := range []*cobra.Command{webhookTestCmd, webhookRemoveCmd, webhookEnableCmd, webhookDisableCmd} {
		c.ValidArgsFunction = completeWebhookArgs
	}

	webhookCmd.AddCommand(
		webhookAddCmd,
		webhookListCmd,
		webhookTestCmd,
		webhookRemoveCmd,
		webhookEnableCmd,
		webhookDisableCmd,
	)
	rootCmd.AddCommand(webhookCmd)
}

// completeWebhookArgs completes registered webhook names.
func completeWebhookArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	// Completion runs outside the normal PersistentPreRunE path, so
	// the runtime context may not exist yet.
	if ctx == nil {
		var err error
		ctx, err = runtime.New(runtime.DefaultOptions())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer ctx.Close()
	}

	webhooks, err := ctx.WebhookRepo.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, wh := range webhooks {
		if strings.HasPrefix(wh.Name, toComplete) {
			names = append(names, wh.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func runWebhookAdd(cmd *cobra.Command, args []string) error {
	name, webhookURL := args[0], args[1]

	if err := validate.Name(name); err != nil {
		return err
	}
	if err := validate.URL(webhookURL); err != nil {
		return err
	}

	service := model.WebhookService(webhookAddFlagService)
	if service == "" {
		service = model.DetectService(webhookURL)
	}
	if !model.IsValidService(string(service)) {
		return fmt.Errorf("invalid service: must be discord, slack, or generic")
	}

	webhook := model.NewWebhook(name, webhookURL, service)
	if err := ctx.WebhookRepo.Create(webhook); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(webhook)
	}

	ctx.Formatter.Println("Added webhook:", name)
	ctx.Formatter.Printf("  Service: %s\n", webhook.Service)
	ctx.Formatter.Printf("  Status: enabled\n")
	ctx.Formatter.Println("")
	ctx.Formatter.Printf("Test with: breathe webhook test %s\n", name)
	return nil
}

func runWebhookList(cmd *cobra.Command, args []string) error {
	webhooks, err := ctx.WebhookRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"webhooks": webhooks,
			"count":    len(webhooks),
		})
	}

	ctx.CLIFormatter().PrintWebhookList(webhooks)
	return nil
}

func runWebhookTest(cmd *cobra.Command, args []string) error {
	dispatcher := notify.NewDispatcher(ctx.WebhookRepo, config.Global.HTTP)
	c, cancel := context.WithTimeout(context.Background(), config.Global.HTTP.Timeout)
	defer cancel()

	if webhookTestFlagAll {
		webhooks, err := ctx.WebhookRepo.ListEnabled()
		if err != nil {
			return err
		}
		if len(webhooks) == 0 {
			return fmt.Errorf("no enabled webhooks to test")
		}

		var results []notify.DispatchResult
		for _, wh := range webhooks {
			results = append(results, dispatcher.TestWebhook(c, wh.Name))
		}

		if ctx.IsJSON() {
			return ctx.Formatter.JSON(map[string]interface{}{"results": results})
		}

		for _, result := range results {
			printTestResult(result, true)
		}
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("webhook name required (or use --all)")
	}
	name := args[0]

	if !ctx.IsJSON() {
		ctx.Formatter.Printf("Testing webhook: %s\n", name)
	}

	result := dispatcher.TestWebhook(c, name)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"webhook":     name,
			"success":     result.Success,
			"status_code": result.StatusCode,
			"duration_ms": result.Duration.Milliseconds(),
			"error":       errorString(result.Error),
		})
	}

	printTestResult(result, false)
	return nil
}

// printTestResult renders one delivery outcome, optionally prefixed
// with the webhook name when testing several at once.
func printTestResult(result notify.DispatchResult, withName bool) {
	switch {
	case result.Success && withName:
		ctx.Formatter.Printf("✓ %s: delivered in %dms\n",
			result.WebhookName, result.Duration.Milliseconds())
	case result.Success:
		ctx.Formatter.Printf("✓ Delivered in %dms\n", result.Duration.Milliseconds())
	case withName:
		ctx.Formatter.Printf("✗ %s: %s\n", result.WebhookName, result.Error)
	default:
		ctx.Formatter.Printf("✗ Failed: %s\n", result.Error)
	}
}

func runWebhookRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	if _, err := ctx.WebhookRepo.Get(name); err != nil {
		return err
	}

	if !webhookRemoveFlagForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove webhook %q? [y/N] ", name)
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.WebhookRepo.Delete(name); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":  "removed",
			"webhook": name,
		})
	}

	ctx.Formatter.Printf("Removed webhook: %s\n", name)
	return nil
}

func runWebhookEnable(cmd *cobra.Command, args []string) error {
	return setWebhookEnabled(args[0], true)
}

func runWebhookDisable(cmd *cobra.Command, args []string) error {
	return setWebhookEnabled(args[0], false)
}

func setWebhookEnabled(name string, enabled bool) error {
	webhook, err := ctx.WebhookRepo.Get(name)
	if err != nil {
		return err
	}

	webhook.Enabled = enabled
	if err := ctx.WebhookRepo.Update(webhook); err != nil {
		return err
	}

	status := "disabled"
	if enabled {
		status = "enabled"
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":  status,
			"webhook": name,
		})
	}

	if enabled {
		ctx.Formatter.Printf("Enabled webhook: %s\n", name)
	} else {
		ctx.Formatter.Printf("Disabled webhook: %s\n", name)
	}
	return nil
}

// errorString flattens an error for JSON output.
func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
