package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stillpoint/breathe/internal/config"
	"github.com/stillpoint/breathe/internal/engine"
	"github.com/stillpoint/breathe/internal/model"
	"github.com/stillpoint/breathe/internal/notify"
	"github.com/stillpoint/breathe/internal/output"
	"github.com/stillpoint/breathe/internal/parser"
	"github.com/stillpoint/breathe/internal/recorder"
	"github.com/stillpoint/breathe/internal/stats"
	"github.com/stillpoint/breathe/internal/validate"
)

// Start command flags.
var (
	startFlagFor string
)

// defaultTarget is the session length when --for is omitted.
const defaultTarget = 5 * time.Minute

// startCmd represents the start command.
var startCmd = &cobra.Command{
	Use:     "start [PATTERN]",
	Aliases: []string{"s"},
	Short:   "Start a guided breathing session",
	Long: `Start a guided breathing session with a named pattern or an
inhale-hold-exhale triple.

During the session:
  SPACE  pause / resume
  q      end the session early

Examples:
  breathe start                  # box breathing for 5 minutes
  breathe start relaxing         # the 4-7-8 preset
  breathe start 6-0-8            # an ad-hoc triple
  breathe start calm --for 10m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVar(&startFlagFor, "for", "",
		"Session length (e.g. '5m', '90s', '1h')")

	startCmd.ValidArgsFunction = completePatternArgs

	rootCmd.AddCommand(startCmd)
}

// resolvePattern turns a command argument into a pattern. Bare names
// look up presets and saved patterns; a triple like "4-7-8" builds an
// ad-hoc pattern that is never persisted.
func resolvePattern(arg string) (model.Pattern, error) {
	if arg == "" {
		cfg, err := ctx.Config()
		if err != nil {
			return model.Pattern{}, err
		}
		arg = cfg.DefaultPattern
		if arg == "" {
			arg = model.DefaultPatternName
		}
	}

	if parser.LooksLikePatternSpec(arg) {
		spec := parser.ParsePatternSpec(arg)
		if err := validate.PatternDurations(spec.Inhale, spec.Hold, spec.Exhale); err != nil {
			return model.Pattern{}, err
		}
		p := model.Pattern{
			Name:   fmt.Sprintf("%d-%d-%d", spec.Inhale, spec.Hold, spec.Exhale),
			Inhale: spec.Inhale,
			Hold:   spec.Hold,
			Exhale: spec.Exhale,
		}
		return p, nil
	}

	return ctx.PatternRepo.Resolve(arg)
}

// runStart handles the start command.
func runStart(cmd *cobra.Command, args []string) error {
	patternArg := ""
	if len(args) > 0 {
		patternArg = args[0]
	}

	pattern, err := resolvePattern(patternArg)
	if err != nil {
		return err
	}

	target := defaultTarget
	if startFlagFor != "" {
		parsed := parser.ParseDuration(startFlagFor)
		if !parsed.Valid {
			return fmt.Errorf("could not parse duration %q (try '5m' or '90s')", startFlagFor)
		}
		target = parsed.Duration
	}
	if err := validate.TargetSeconds(int(target.Seconds())); err != nil {
		return err
	}

	ownerKey, err := ctx.UserKey()
	if err != nil {
		return err
	}

	eng, err := engine.New(pattern, int(target.Seconds()))
	if err != nil {
		return err
	}

	rec := recorder.New(ctx.SessionRepo, config.Global.Recorder)
	rec.Begin(ownerKey, pattern, target, time.Now())
	rec.Attach(eng)

	runner := engine.NewRunner(eng, pattern.Name, config.Global.Engine.TickInterval)
	result, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	record, err := rec.Finalize(result, time.Now())
	if err != nil {
		return err
	}

	return finishSession(record)
}

// finishSession updates stats for the saved record and reports the
// outcome. A nil record was too short to count. Only completed
// sessions feed the stats and achievements; a session ended early is
// saved with partial credit and nothing more.
func finishSession(record *model.SessionRecord) error {
	if record == nil {
		if ctx.IsJSON() {
			return ctx.Formatter.JSON(output.SessionResultResponse{Status: "discarded"})
		}
		ctx.CLIFormatter().PrintSessionDiscarded()
		return nil
	}

	var (
		updated *model.UserStats
		unlocks []*model.Achievement
	)
	if record.Completed {
		aggregator := stats.New(ctx.StatsRepo, ctx.AchievementRepo, config.Global.Stats)
		var err error
		updated, unlocks, err = aggregator.Apply(record, time.Now())
		if err != nil {
			// The session itself is already saved
			if !ctx.IsJSON() {
				ctx.CLIFormatter().PrintSessionSaved(record)
			}
			return err
		}
		announceUnlocks(unlocks)
	}

	if ctx.IsJSON() {
		status := "partial"
		if record.Completed {
			status = "completed"
		}
		resp := output.SessionResultResponse{
			Status:  status,
			Session: output.NewSessionOutput(record),
		}
		if updated != nil {
			resp.Stats = output.NewStatsResponse(updated)
			resp.NewUnlocks = make([]*output.AchievementOutput, len(unlocks))
			for i, a := range unlocks {
				resp.NewUnlocks[i] = output.NewAchievementOutput(a)
			}
		}
		return ctx.Formatter.JSON(resp)
	}

	cli := ctx.CLIFormatter()
	cli.PrintSessionSaved(record)
	if updated != nil {
		if updated.StreakDays > 0 {
			ctx.Formatter.Println(cli.Streak(updated.StreakDays))
		}
		cli.PrintNewUnlocks(unlocks)
	}

	return nil
}

// announceUnlocks fans newly earned achievements out to enabled
// webhooks. Delivery failures are logged by the dispatcher and never
// fail the session.
func announceUnlocks(unlocks []*model.Achievement) {
	if len(unlocks) == 0 {
		return
	}
	dispatcher := notify.NewDispatcher(ctx.WebhookRepo, config.Global.HTTP)
	if !dispatcher.HasEnabledWebhooks() {
		return
	}

	c, cancel := context.WithTimeout(context.Background(), config.Global.HTTP.Timeout)
	defer cancel()

	for _, a := range unlocks {
		n := model.NewNotification(
			"achievement",
			fmt.Sprintf("%s %s unlocked", a.Icon, a.Name),
			a.Description,
		)
		dispatcher.SendNotification(c, n)
	}
}
