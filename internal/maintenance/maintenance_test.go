package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/soundscape/internal/platform/config"
	"github.com/lueurxax/soundscape/internal/platform/observability"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	counts      map[string]int
	countsSince time.Time
	cutoff      time.Time
	deleted     int64
	err         error
}

func (r *fakeRepo) AppUsageCounts(_ context.Context, since time.Time) (map[string]int, error) {
	r.countsSince = since
	return r.counts, r.err
}

func (r *fakeRepo) PruneEmotionRecords(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.deleted, r.err
}

func newJobs(repo Repository, cfg config.MaintenanceConfig) *Jobs {
	logger := zerolog.Nop()
	j := New(repo, cfg, []string{"healing", "theatre"}, &logger)
	j.now = func() time.Time { return testNow }

	return j
}

func TestRefreshPopularity(t *testing.T) {
	repo := &fakeRepo{counts: map[string]int{"healing": 7}}
	j := newJobs(repo, config.MaintenanceConfig{PopularityWindow: 24 * time.Hour})

	require.NoError(t, j.RefreshPopularity(context.Background()))

	assert.Equal(t, testNow.Add(-24*time.Hour), repo.countsSince)
	assert.InDelta(t, 7, testutil.ToFloat64(observability.AppPopularity.WithLabelValues("healing")), 1e-9)
	assert.InDelta(t, 0, testutil.ToFloat64(observability.AppPopularity.WithLabelValues("theatre")), 1e-9)
}

func TestRefreshPopularity_Error(t *testing.T) {
	j := newJobs(&fakeRepo{err: assert.AnError}, config.MaintenanceConfig{})

	require.ErrorIs(t, j.RefreshPopularity(context.Background()), assert.AnError)
}

func TestPruneEmotions(t *testing.T) {
	repo := &fakeRepo{deleted: 3}
	j := newJobs(repo, config.MaintenanceConfig{EmotionRetention: 48 * time.Hour})

	before := testutil.ToFloat64(observability.EmotionRecordsPruned)

	require.NoError(t, j.PruneEmotions(context.Background()))

	assert.Equal(t, testNow.Add(-48*time.Hour), repo.cutoff)
	assert.InDelta(t, before+3, testutil.ToFloat64(observability.EmotionRecordsPruned), 1e-9)
}

func TestPruneEmotions_Disabled(t *testing.T) {
	repo := &fakeRepo{}
	j := newJobs(repo, config.MaintenanceConfig{})

	require.NoError(t, j.PruneEmotions(context.Background()))
	assert.True(t, repo.cutoff.IsZero())
}

func TestTasks(t *testing.T) {
	cfg := config.MaintenanceConfig{
		PopularityInterval: time.Minute,
		RetentionInterval:  time.Hour,
		JobTimeout:         time.Second,
	}

	assert.Len(t, newJobs(&fakeRepo{}, cfg).Tasks(), 1)

	cfg.EmotionRetention = time.Hour
	tasks := newJobs(&fakeRepo{}, cfg).Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, taskRetention, tasks[1].Name)
	assert.Equal(t, time.Second, tasks[1].Timeout)
}
