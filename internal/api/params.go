package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goccy/go-json"

	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/core/errors"
)

const (
	queryLimit       = "limit"
	querySince       = "since"
	queryDeviceType  = "device_type"
	queryTimeOfDay   = "time_of_day"
	queryExcluded    = "excluded_types"
	queryPreferred   = "preferred_features"
	listSeparator    = ","
	maxQueryLimit    = 1000
	errDecodeRequest = "decode request: %w"
)

// decodeJSON reads the request body into v. A too-large body is reported as
// *http.MaxBytesError.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf(errDecodeRequest, err)
	}

	return nil
}

// respondDecodeError answers a body that could not be decoded.
func respondDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, r, http.StatusRequestEntityTooLarge, codeBodyTooLarge, "request body too large", nil)
		return
	}

	respondError(w, r, http.StatusBadRequest, codeBadRequest, "invalid JSON body", nil)
}

// parseSince accepts any date format dateparse understands, or a Go duration
// meaning "that long ago". An empty value yields def.
func parseSince(raw string, now time.Time, def time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	if d, err := time.ParseDuration(raw); err == nil {
		return now.Add(-d.Abs()), nil
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("since %q: %w", raw, errors.ErrInvalidInput)
	}

	return t, nil
}

// parseLimit returns def for a missing value and an error for a malformed or out-of-range one.
func parseLimit(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxQueryLimit {
		return 0, fmt.Errorf("limit %q: %w", raw, errors.ErrInvalidInput)
	}

	return n, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, listSeparator)
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

func personalizationContext(device, timeOfDay string) *domain.PersonalizationContext {
	return &domain.PersonalizationContext{
		TimeOfDay: domain.ParseTimeOfDay(timeOfDay),
		Venue:     domain.ParseVenue(device),
	}
}
