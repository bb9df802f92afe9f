// Package maintenance holds the background jobs run in worker mode:
// refreshing the app popularity gauge and pruning old emotion records.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/platform/config"
	"github.com/lueurxax/soundscape/internal/platform/observability"
	"github.com/lueurxax/soundscape/internal/platform/worker"
	db "github.com/lueurxax/soundscape/internal/storage"
)

const (
	taskPopularity = "app-popularity"
	taskRetention  = "emotion-retention"
)

// Repository is the storage used by the jobs.
type Repository interface {
	AppUsageCounts(ctx context.Context, since time.Time) (map[string]int, error)
	PruneEmotionRecords(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ Repository = (*db.DB)(nil)

// Jobs runs the periodic maintenance tasks.
type Jobs struct {
	repo    Repository
	cfg     config.MaintenanceConfig
	appKeys []string
	now     func() time.Time
	logger  *zerolog.Logger
}

// New creates the jobs. appKeys lists every catalog key so unused apps report zero.
func New(repo Repository, cfg config.MaintenanceConfig, appKeys []string, logger *zerolog.Logger) *Jobs {
	return &Jobs{
		repo:    repo,
		cfg:     cfg,
		appKeys: appKeys,
		now:     time.Now,
		logger:  logger,
	}
}

// Tasks returns the worker tasks. Retention is omitted when disabled.
func (j *Jobs) Tasks() []worker.Task {
	tasks := []worker.Task{{
		Name:     taskPopularity,
		Interval: j.cfg.PopularityInterval,
		Timeout:  j.cfg.JobTimeout,
		Run:      j.RefreshPopularity,
	}}

	if j.cfg.EmotionRetention > 0 {
		tasks = append(tasks, worker.Task{
			Name:     taskRetention,
			Interval: j.cfg.RetentionInterval,
			Timeout:  j.cfg.JobTimeout,
			Run:      j.PruneEmotions,
		})
	}

	return tasks
}

// Run blocks until ctx is canceled.
func (j *Jobs) Run(ctx context.Context) error {
	return worker.Loop(ctx, worker.Config{
		Name:   "maintenance",
		Tasks:  j.Tasks(),
		Logger: j.logger,
	})
}

// RefreshPopularity sets the popularity gauge from usage within the window.
func (j *Jobs) RefreshPopularity(ctx context.Context) error {
	counts, err := j.repo.AppUsageCounts(ctx, j.now().Add(-j.cfg.PopularityWindow))
	if err != nil {
		return fmt.Errorf("load app usage counts: %w", err)
	}

	for _, key := range j.appKeys {
		observability.AppPopularity.WithLabelValues(key).Set(float64(counts[key]))
	}

	return nil
}

// PruneEmotions deletes emotion records older than the retention period.
func (j *Jobs) PruneEmotions(ctx context.Context) error {
	if j.cfg.EmotionRetention <= 0 {
		return nil
	}

	cutoff := j.now().Add(-j.cfg.EmotionRetention)

	deleted, err := j.repo.PruneEmotionRecords(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune emotion records: %w", err)
	}

	if deleted > 0 {
		observability.EmotionRecordsPruned.Add(float64(deleted))
		j.logger.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("pruned emotion records")
	}

	return nil
}
