package scheduler

import (
	"time"

	"github.com/stillpoint/breathe/internal/logging"
	"github.com/stillpoint/breathe/internal/stats"
	"github.com/stillpoint/breathe/internal/storage"
)

// RolloverJob breaks stale streaks at the day boundary. The streak
// itself only changes when a session is applied or this job runs;
// read paths never mutate stats.
type RolloverJob struct {
	aggregator *stats.Aggregator
	configRepo *storage.ConfigRepo
}

// NewRolloverJob creates the daily rollover job.
func NewRolloverJob(aggregator *stats.Aggregator, configRepo *storage.ConfigRepo) *RolloverJob {
	return &RolloverJob{
		aggregator: aggregator,
		configRepo: configRepo,
	}
}

// Run applies the rollover for the configured user.
func (j *RolloverJob) Run(now time.Time) {
	cfg, err := j.configRepo.GetOrInit()
	if err != nil {
		logging.Logger().Warn("rollover skipped, config unavailable", "error", err)
		return
	}

	updated, err := j.aggregator.ApplyRollover(cfg.UserKey, now)
	if err != nil {
		logging.Logger().Warn("rollover failed", "error", err)
		return
	}

	logging.Logger().Debug("rollover complete",
		logging.KeyStreak, updated.StreakDays,
	)
}
