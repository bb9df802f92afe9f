package db

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// SaveEmotionRecord inserts rec, filling in ID and CreatedAt.
func (db *DB) SaveEmotionRecord(ctx context.Context, rec *domain.EmotionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	var createdAt pgtype.Timestamptz

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO emotion_records (id, user_id, emotion_type, intensity, confidence, source, text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, toUUID(rec.ID), rec.UserID, rec.EmotionType, toFloat8(rec.Intensity), toFloat8(rec.Confidence),
		rec.Source, toText(rec.Text)).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("insert emotion record: %w", err)
	}

	rec.CreatedAt = fromTimestamptz(createdAt)

	return nil
}

// RecentEmotions returns up to limit of the user's most recent records
// created after since, oldest first.
func (db *DB) RecentEmotions(ctx context.Context, userID string, since time.Time, limit int) ([]domain.EmotionRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, emotion_type, intensity, confidence, source, text, created_at
		FROM emotion_records
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, toTimestamptz(since), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query emotion records: %w", err)
	}
	defer rows.Close()

	var out []domain.EmotionRecord

	for rows.Next() {
		var (
			id         pgtype.UUID
			rec        domain.EmotionRecord
			intensity  pgtype.Float8
			confidence pgtype.Float8
			text       pgtype.Text
			createdAt  pgtype.Timestamptz
		)

		if err := rows.Scan(&id, &rec.UserID, &rec.EmotionType, &intensity, &confidence, &rec.Source, &text, &createdAt); err != nil {
			return nil, fmt.Errorf("scan emotion record: %w", err)
		}

		rec.ID = fromUUID(id)
		rec.Intensity = float8Or(intensity, domain.DefaultIntensity)
		rec.Confidence = fromFloat8(confidence)
		rec.Text = fromText(text)
		rec.CreatedAt = fromTimestamptz(createdAt)

		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emotion records: %w", err)
	}

	slices.Reverse(out)

	return out, nil
}

// EmotionStatistics aggregates the user's records created after since.
func (db *DB) EmotionStatistics(ctx context.Context, userID string, since time.Time) (domain.EmotionStatistics, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT emotion_type, COUNT(*), COALESCE(AVG(intensity), 0), MAX(created_at)
		FROM emotion_records
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		GROUP BY emotion_type
	`, userID, toTimestamptz(since))
	if err != nil {
		return domain.EmotionStatistics{}, fmt.Errorf("query emotion statistics: %w", err)
	}
	defer rows.Close()

	var groups []emotionGroup

	for rows.Next() {
		var (
			g      emotionGroup
			lastAt pgtype.Timestamptz
		)

		if err := rows.Scan(&g.emotion, &g.count, &g.avgIntensity, &lastAt); err != nil {
			return domain.EmotionStatistics{}, fmt.Errorf("scan emotion statistics: %w", err)
		}

		g.lastAt = fromTimestamptz(lastAt)
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return domain.EmotionStatistics{}, fmt.Errorf("iterate emotion statistics: %w", err)
	}

	stats := buildEmotionStatistics(groups)
	stats.UserID = userID

	return stats, nil
}

type emotionGroup struct {
	emotion      string
	count        int
	avgIntensity float64
	lastAt       time.Time
}

// buildEmotionStatistics orders groups by count descending, then by most
// recent record, and derives the overall mean and dominant label.
func buildEmotionStatistics(groups []emotionGroup) domain.EmotionStatistics {
	slices.SortStableFunc(groups, func(a, b emotionGroup) int {
		if a.count != b.count {
			return b.count - a.count
		}

		return b.lastAt.Compare(a.lastAt)
	})

	stats := domain.EmotionStatistics{ByEmotion: make([]domain.EmotionCount, 0, len(groups))}

	var weighted float64

	for _, g := range groups {
		stats.Total += g.count
		weighted += g.avgIntensity * float64(g.count)

		stats.ByEmotion = append(stats.ByEmotion, domain.EmotionCount{
			EmotionType:      g.emotion,
			Count:            g.count,
			AverageIntensity: g.avgIntensity,
		})
	}

	if stats.Total > 0 {
		stats.AverageIntensity = weighted / float64(stats.Total)
		stats.Dominant = stats.ByEmotion[0].EmotionType
	}

	return stats
}
