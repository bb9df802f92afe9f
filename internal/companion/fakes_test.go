package companion

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/core/llm"
	"github.com/lueurxax/soundscape/internal/recommend"
	db "github.com/lueurxax/soundscape/internal/storage"
)

type fakeRepo struct {
	mu sync.Mutex

	emotions  []domain.EmotionRecord
	usage     []domain.UsageRecord
	counts    map[string]int
	stats     domain.EmotionStatistics
	feedback  []domain.Feedback
	appUsages []domain.AppUsage
	llmUsage  []db.LLMUsage

	recentLimit int
	err         error
	usageErr    error
}

func (r *fakeRepo) SaveEmotionRecord(_ context.Context, rec *domain.EmotionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}

	rec.ID = "rec-1"
	r.emotions = append(r.emotions, *rec)

	return nil
}

func (r *fakeRepo) RecentEmotions(_ context.Context, _ string, _ time.Time, limit int) ([]domain.EmotionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recentLimit = limit

	return r.emotions, r.err
}

func (r *fakeRepo) EmotionStatistics(_ context.Context, userID string, _ time.Time) (domain.EmotionStatistics, error) {
	stats := r.stats
	stats.UserID = userID

	return stats, r.err
}

func (r *fakeRepo) RecordAppUsage(_ context.Context, u *domain.AppUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.appUsages = append(r.appUsages, *u)

	return r.err
}

func (r *fakeRepo) UsageHistory(context.Context, string, time.Time, int) ([]domain.UsageRecord, error) {
	return r.usage, r.usageErr
}

func (r *fakeRepo) AppUsageCounts(context.Context, time.Time) (map[string]int, error) {
	return r.counts, r.err
}

func (r *fakeRepo) SaveFeedback(_ context.Context, f *domain.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.feedback = append(r.feedback, *f)

	return r.err
}

func (r *fakeRepo) LLMUsageSince(context.Context, time.Time) ([]db.LLMUsage, error) {
	return r.llmUsage, r.err
}

// fakeLLM returns canned analyses keyed by input text.
type fakeLLM struct {
	analyses   map[string]llm.EmotionAnalysis
	transcript string
	reply      string
	speech     []byte

	transcribeErr error
	speechErr     error

	repliedWith string
}

func (f *fakeLLM) AnalyzeEmotion(_ context.Context, text string) (llm.EmotionAnalysis, error) {
	if a, ok := f.analyses[text]; ok {
		return a, nil
	}

	return llm.EmotionAnalysis{PrimaryEmotion: domain.EmotionNeutral, Confidence: 0.3, Intensity: 0.5, Fallback: true}, nil
}

func (f *fakeLLM) Transcribe(context.Context, []byte, string) (string, error) {
	return f.transcript, f.transcribeErr
}

func (f *fakeLLM) CompanionReply(_ context.Context, _, emotion string) (string, error) {
	f.repliedWith = emotion

	return f.reply, nil
}

func (f *fakeLLM) SynthesizeSpeech(context.Context, string) ([]byte, error) {
	return f.speech, f.speechErr
}

func newTestService(t *testing.T, repo Repository, client llm.Client) *Service {
	t.Helper()

	catalog, rules, err := recommend.LoadDefault()
	require.NoError(t, err)

	logger := zerolog.Nop()

	return New(recommend.NewEngine(catalog, rules, 0), client, repo, Settings{
		DefaultContext: domain.PersonalizationContext{TimeOfDay: domain.TimeAfternoon, Venue: domain.VenueMobile},
	}, &logger)
}

func matchScore(recs []recommend.Recommendation, key string) float64 {
	for _, r := range recs {
		if r.Item.Key == key {
			return r.MatchScore
		}
	}

	return -1
}
