package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// RecordAppUsage inserts u, filling in ID and CreatedAt.
func (db *DB) RecordAppUsage(ctx context.Context, u *domain.AppUsage) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	var createdAt pgtype.Timestamptz

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO app_usage (id, user_id, item_key, mode, trigger_emotion, duration_sec)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, toUUID(u.ID), u.UserID, u.ItemKey, toText(u.Mode), toText(u.TriggerEmotion), toInt4(u.DurationSec)).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("insert app usage: %w", err)
	}

	u.CreatedAt = fromTimestamptz(createdAt)

	return nil
}

// UsageHistory returns the user's most recent app uses after since, newest first.
func (db *DB) UsageHistory(ctx context.Context, userID string, since time.Time, limit int) ([]domain.UsageRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT item_key
		FROM app_usage
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR created_at >= $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, userID, toTimestamptz(since), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query usage history: %w", err)
	}
	defer rows.Close()

	var out []domain.UsageRecord

	for rows.Next() {
		var r domain.UsageRecord
		if err := rows.Scan(&r.ItemKey); err != nil {
			return nil, fmt.Errorf("scan usage history: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage history: %w", err)
	}

	return out, nil
}

// AppUsageCounts returns the number of recorded uses per item key across all users.
func (db *DB) AppUsageCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT item_key, COUNT(*)
		FROM app_usage
		WHERE $1::timestamptz IS NULL OR created_at >= $1
		GROUP BY item_key
	`, toTimestamptz(since))
	if err != nil {
		return nil, fmt.Errorf("query app usage counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var (
			key string
			n   int
		)

		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan app usage counts: %w", err)
		}

		counts[key] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate app usage counts: %w", err)
	}

	return counts, nil
}
