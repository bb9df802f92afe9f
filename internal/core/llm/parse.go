package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/core/errors"
)

// extractJSON returns the first balanced JSON object in s, skipping any
// surrounding prose or markdown fences.
func extractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errors.ErrEmptyResponse
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		ch := s[i]

		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated JSON object: %w", errors.ErrInvalidInput)
}

// parseEmotionAnalysis decodes a model answer and normalizes its fields.
// Unknown primary labels become neutral; scores are clamped to [0,1].
func parseEmotionAnalysis(content string) (EmotionAnalysis, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return EmotionAnalysis{}, fmt.Errorf(errParseResponse, err)
	}

	var res EmotionAnalysis
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return EmotionAnalysis{}, fmt.Errorf(errParseResponse, err)
	}

	res.PrimaryEmotion = domain.NormalizeLabel(res.PrimaryEmotion)
	if !domain.IsKnownEmotion(res.PrimaryEmotion) {
		res.PrimaryEmotion = fallbackEmotion
	}

	res.Confidence = domain.Clamp01(res.Confidence)

	if res.Intensity == 0 {
		res.Intensity = res.Confidence
	}

	res.Intensity = domain.Clamp01(res.Intensity)

	secondary := res.SecondaryEmotions[:0]
	for _, e := range res.SecondaryEmotions {
		e = domain.NormalizeLabel(e)
		if domain.IsKnownEmotion(e) && e != res.PrimaryEmotion {
			secondary = append(secondary, e)
		}
	}

	res.SecondaryEmotions = secondary

	return res, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + "..."
}
