package db

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// pgx <-> domain conversions. Empty strings and zero times map to NULL.

func toUUID(id string) pgtype.UUID {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}
	}

	return pgtype.UUID{Bytes: u, Valid: true}
}

func fromUUID(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}

	return uuid.UUID(id.Bytes).String()
}

func toText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}

	return pgtype.Text{String: SanitizeUTF8(s), Valid: true}
}

func fromText(t pgtype.Text) string {
	return t.String
}

// SanitizeUTF8 drops invalid UTF-8 sequences, which postgres rejects in TEXT columns.
func SanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}

	return pgtype.Timestamptz{Time: t, Valid: true}
}

func fromTimestamptz(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}

	return t.Time
}

func toInt4(i int) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(max(min(i, math.MaxInt32), math.MinInt32)), Valid: true} //nolint:gosec // clamped above
}

func toFloat8(f float64) pgtype.Float8 {
	if math.IsNaN(f) {
		return pgtype.Float8{}
	}

	return pgtype.Float8{Float64: f, Valid: true}
}

func fromFloat8(f pgtype.Float8) float64 {
	return f.Float64
}

// float8Or returns def for NULL.
func float8Or(f pgtype.Float8, def float64) float64 {
	if !f.Valid {
		return def
	}

	return f.Float64
}

// clampLimit bounds a caller supplied row limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultQueryLimit
	}

	return min(limit, maxQueryLimit)
}
