package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// PruneEmotionRecords deletes emotion records created before cutoff.
// Only one instance prunes at a time; others return 0 without waiting.
func (db *DB) PruneEmotionRecords(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin prune: %w", err)
	}

	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			db.Logger.Warn().Err(rbErr).Msg("rollback prune transaction")
		}
	}()

	var acquired bool
	if err := tx.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock($1)", pruneLockID).Scan(&acquired); err != nil {
		return 0, fmt.Errorf("acquire prune lock: %w", err)
	}

	if !acquired {
		return 0, nil
	}

	tag, err := tx.Exec(ctx, `DELETE FROM emotion_records WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete emotion records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}

	return tag.RowsAffected(), nil
}
