package companion

import (
	"context"
	"time"

	"github.com/lueurxax/soundscape/internal/core/domain"
	db "github.com/lueurxax/soundscape/internal/storage"
)

// Repository defines the storage interface needed by the companion service.
type Repository interface {
	SaveEmotionRecord(ctx context.Context, rec *domain.EmotionRecord) error
	RecentEmotions(ctx context.Context, userID string, since time.Time, limit int) ([]domain.EmotionRecord, error)
	EmotionStatistics(ctx context.Context, userID string, since time.Time) (domain.EmotionStatistics, error)
	RecordAppUsage(ctx context.Context, u *domain.AppUsage) error
	UsageHistory(ctx context.Context, userID string, since time.Time, limit int) ([]domain.UsageRecord, error)
	AppUsageCounts(ctx context.Context, since time.Time) (map[string]int, error)
	SaveFeedback(ctx context.Context, f *domain.Feedback) error
	LLMUsageSince(ctx context.Context, since time.Time) ([]db.LLMUsage, error)
}

var _ Repository = (*db.DB)(nil)
