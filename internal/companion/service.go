// Package companion orchestrates emotion analysis, persistence and the
// recommendation engine behind the public API.
package companion

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/core/errors"
	"github.com/lueurxax/soundscape/internal/core/llm"
	"github.com/lueurxax/soundscape/internal/platform/observability"
	"github.com/lueurxax/soundscape/internal/recommend"
	db "github.com/lueurxax/soundscape/internal/storage"
)

// Settings tunes history lookups and request defaults.
type Settings struct {
	HistoryLookback time.Duration
	HistoryLimit    int
	EmotionWindow   int
	DefaultContext  domain.PersonalizationContext
}

// Service is safe for concurrent use.
type Service struct {
	engine   *recommend.Engine
	llm      llm.Client
	repo     Repository
	settings Settings
	now      func() time.Time
	logger   *zerolog.Logger
}

// New creates a companion service.
func New(engine *recommend.Engine, client llm.Client, repo Repository, settings Settings, logger *zerolog.Logger) *Service {
	if settings.HistoryLookback <= 0 {
		settings.HistoryLookback = defaultLookback
	}

	if settings.HistoryLimit <= 0 {
		settings.HistoryLimit = defaultHistoryLimit
	}

	if settings.EmotionWindow <= 0 {
		settings.EmotionWindow = recommend.DefaultEmotionWindow
	}

	return &Service{
		engine:   engine,
		llm:      client,
		repo:     repo,
		settings: settings,
		now:      time.Now,
		logger:   logger,
	}
}

// RecommendInput is a live emotion signal plus optional user context.
type RecommendInput struct {
	UserID      string
	EmotionType string
	Intensity   float64
	Preference  *domain.UserPreference
	Context     *domain.PersonalizationContext
}

// Recommend ranks the catalog for a live signal, boosting apps the user has used before.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (s *Service) Recommend(ctx context.Context, in RecommendInput) (recommend.Response, error) {
	history := s.usageHistory(ctx, in.UserID)

	resp := s.engine.Recommend(recommend.Request{
		EmotionType: in.EmotionType,
		Intensity:   in.Intensity,
		History:     history,
		Preference:  in.Preference,
		Context:     s.contextOrDefault(in.Context),
	})

	s.observe(resp, sourceSignal)

	return resp, nil
}

// RecommendForUser ranks the catalog from the user's stored emotion history.
func (s *Service) RecommendForUser(ctx context.Context, userID string, pref *domain.UserPreference, pctx *domain.PersonalizationContext) (recommend.Response, error) {
	since := s.now().Add(-s.settings.HistoryLookback)

	emotions, err := s.repo.RecentEmotions(ctx, userID, since, s.settings.EmotionWindow)
	if err != nil {
		return recommend.Response{}, fmt.Errorf("load recent emotions: %w", err)
	}

	resp := s.engine.RecommendFromHistory(recommend.HistoryRequest{
		Emotions:   emotions,
		History:    s.usageHistory(ctx, userID),
		Preference: pref,
		Context:    s.contextOrDefault(pctx),
	})

	s.logger.Debug().
		Str(logKeyUserID, userID).
		Int("records", len(emotions)).
		Str(logKeyEmotion, resp.EmotionType).
		Msg("history recommendation")

	s.observe(resp, sourceHistory)

	return resp, nil
}

// usageHistory is best-effort: without it the user simply gets no history boost.
func (s *Service) usageHistory(ctx context.Context, userID string) []domain.UsageRecord {
	if userID == "" || s.repo == nil {
		return nil
	}

	since := s.now().Add(-s.settings.HistoryLookback)

	history, err := s.repo.UsageHistory(ctx, userID, since, s.settings.HistoryLimit)
	if err != nil {
		s.logger.Warn().Err(err).Str(logKeyUserID, userID).Msg("failed to load usage history")

		return nil
	}

	return history
}

// contextOrDefault fills unset parts of pctx from the configured defaults.
func (s *Service) contextOrDefault(pctx *domain.PersonalizationContext) *domain.PersonalizationContext {
	out := s.settings.DefaultContext
	if pctx == nil {
		return &out
	}

	if pctx.TimeOfDay != domain.TimeUnset {
		out.TimeOfDay = pctx.TimeOfDay
	}

	if pctx.Venue != domain.VenueUnset {
		out.Venue = pctx.Venue
	}

	return &out
}

func (s *Service) observe(resp recommend.Response, source string) {
	primary := ""
	if resp.Primary != nil {
		primary = resp.Primary.Item.Key
		observability.RecommendationPrimaryScore.Observe(resp.Primary.Score)
	}

	observability.RecommendationsServed.WithLabelValues(resp.EmotionType, primary, source).Inc()
}

// RecordUsage stores one app use. Unknown keys are rejected.
func (s *Service) RecordUsage(ctx context.Context, u *domain.AppUsage) error {
	if _, ok := s.engine.Catalog().Get(u.ItemKey); !ok {
		return fmt.Errorf("%q: %w", u.ItemKey, errors.ErrItemNotFound)
	}

	if u.TriggerEmotion != "" {
		u.TriggerEmotion = domain.NormalizeLabel(u.TriggerEmotion)
	}

	if err := s.repo.RecordAppUsage(ctx, u); err != nil {
		return fmt.Errorf("record app usage: %w", err)
	}

	observability.AppUsageRecorded.WithLabelValues(u.ItemKey).Inc()

	return nil
}

// SubmitFeedback stores a satisfaction rating for a recommendation.
func (s *Service) SubmitFeedback(ctx context.Context, f *domain.Feedback) error {
	if f.Satisfaction < minSatisfaction || f.Satisfaction > maxSatisfaction {
		return fmt.Errorf("satisfaction %d: %w", f.Satisfaction, errors.ErrInvalidInput)
	}

	if _, ok := s.engine.Catalog().Get(f.RecommendedKey); !ok {
		return fmt.Errorf("%q: %w", f.RecommendedKey, errors.ErrItemNotFound)
	}

	if f.SelectedKey != "" {
		if _, ok := s.engine.Catalog().Get(f.SelectedKey); !ok {
			return fmt.Errorf("%q: %w", f.SelectedKey, errors.ErrItemNotFound)
		}
	}

	if err := s.repo.SaveFeedback(ctx, f); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}

	observability.FeedbackSatisfaction.WithLabelValues(f.RecommendedKey).Observe(float64(f.Satisfaction))

	s.logger.Info().
		Str(logKeyUserID, f.UserID).
		Str("recommended", f.RecommendedKey).
		Str("satisfaction", strconv.Itoa(f.Satisfaction)).
		Msg("feedback recorded")

	return nil
}

// EmotionHistory returns the user's records created after since, oldest first.
func (s *Service) EmotionHistory(ctx context.Context, userID string, since time.Time, limit int) ([]domain.EmotionRecord, error) {
	if limit <= 0 || limit > historyEmotionsLimit {
		limit = historyEmotionsLimit
	}

	records, err := s.repo.RecentEmotions(ctx, userID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("load emotion history: %w", err)
	}

	return records, nil
}

// EmotionStatistics aggregates the user's records created after since.
func (s *Service) EmotionStatistics(ctx context.Context, userID string, since time.Time) (domain.EmotionStatistics, error) {
	stats, err := s.repo.EmotionStatistics(ctx, userID, since)
	if err != nil {
		return domain.EmotionStatistics{}, fmt.Errorf("load emotion statistics: %w", err)
	}

	return stats, nil
}

// Apps lists the catalog in catalog order.
func (s *Service) Apps() []*domain.CatalogItem {
	return s.engine.Catalog().Items()
}

// App looks up one catalog item.
func (s *Service) App(key string) (*domain.CatalogItem, error) {
	item, ok := s.engine.Catalog().Get(key)
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, errors.ErrItemNotFound)
	}

	return item, nil
}

// LLMUsage returns daily token usage rows on or after since.
func (s *Service) LLMUsage(ctx context.Context, since time.Time) ([]db.LLMUsage, error) {
	usage, err := s.repo.LLMUsageSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load llm usage: %w", err)
	}

	return usage, nil
}
