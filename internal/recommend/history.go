package recommend

import "github.com/lueurxax/soundscape/internal/core/domain"

// SummarizeEmotions reduces the last window records to one signal.
// Records must be oldest first. The dominant emotion is the most frequent
// label; ties go to the label seen most recently. Intensity is the mean
// of the stored values; a zero intensity is a real observation. Blank labels count as neutral.
// No records yields neutral at the default intensity.
func SummarizeEmotions(records []domain.EmotionRecord, window int) domain.EmotionSignal {
	if len(records) == 0 {
		return domain.NewEmotionSignal(domain.EmotionNeutral, domain.DefaultIntensity)
	}

	if window > 0 && len(records) > window {
		records = records[len(records)-window:]
	}

	counts := make(map[string]int, len(records))
	lastSeen := make(map[string]int, len(records))

	var sum float64

	for i, r := range records {
		label := domain.NormalizeLabel(r.EmotionType)
		if label == "" {
			label = domain.EmotionNeutral
		}

		counts[label]++
		lastSeen[label] = i

		sum += r.Intensity
	}

	var dominant string

	for label, n := range counts {
		best := counts[dominant]
		if dominant == "" || n > best || (n == best && lastSeen[label] > lastSeen[dominant]) {
			dominant = label
		}
	}

	return domain.NewEmotionSignal(dominant, sum/float64(len(records)))
}
