package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// SaveFeedback inserts f, filling in ID and CreatedAt.
func (db *DB) SaveFeedback(ctx context.Context, f *domain.Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	var createdAt pgtype.Timestamptz

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO recommendation_feedback (id, user_id, recommended_key, selected_key, satisfaction)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, toUUID(f.ID), f.UserID, f.RecommendedKey, toText(f.SelectedKey), toInt4(f.Satisfaction)).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}

	f.CreatedAt = fromTimestamptz(createdAt)

	return nil
}
