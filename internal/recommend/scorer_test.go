package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

func TestScore_DefaultCatalog(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	tests := []struct {
		name      string
		emotion   string
		intensity float64
		want      map[string]float64
	}{
		{
			name:      "sad high intensity",
			emotion:   domain.EmotionSad,
			intensity: 0.8,
			want:      map[string]float64{keyHealing: 1.0, keyTheatre: 0.65, keyWorkshop: 0.75, keyAssistant: 0.6},
		},
		{
			name:      "sad at threshold gets no intensity bonus",
			emotion:   domain.EmotionSad,
			intensity: 0.6,
			want:      map[string]float64{keyHealing: 0.95, keyTheatre: 0.65, keyWorkshop: 0.75, keyAssistant: 0.6},
		},
		{
			name:      "happy high intensity",
			emotion:   domain.EmotionHappy,
			intensity: 0.9,
			want:      map[string]float64{keyHealing: 0.7, keyTheatre: 0.65, keyWorkshop: 1.0, keyAssistant: 0.6},
		},
		{
			name:      "calm",
			emotion:   domain.EmotionCalm,
			intensity: 0.5,
			want:      map[string]float64{keyHealing: 0.7, keyTheatre: 0.9, keyWorkshop: 0.75, keyAssistant: 0.85},
		},
		{
			name:      "unknown emotion takes penalty everywhere",
			emotion:   "bewildered",
			intensity: 0.9,
			want:      map[string]float64{keyHealing: 0.7, keyTheatre: 0.65, keyWorkshop: 0.75, keyAssistant: 0.6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scored := Score(catalog, rules, domain.NewEmotionSignal(tt.emotion, tt.intensity), nil)
			require.Len(t, scored, len(tt.want))

			for _, s := range scored {
				assert.InDelta(t, tt.want[s.Item.Key], s.MatchScore, scoreDelta, s.Item.Key)
			}
		})
	}
}

func TestScore_CatalogOrderPreserved(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	scored := Score(catalog, rules, domain.NewEmotionSignal(domain.EmotionHappy, 1), nil)

	got := make([]string, len(scored))
	for i, s := range scored {
		got[i] = s.Item.Key
	}

	assert.Equal(t, []string{keyHealing, keyTheatre, keyWorkshop, keyAssistant}, got)
}

func TestScore_ClampInvariant(t *testing.T) {
	catalog := mustCatalog(t,
		domain.CatalogItem{Key: "top", Type: "top", BaseScore: 1, SuitableEmotions: []string{domain.EmotionSad}},
		domain.CatalogItem{Key: "bottom", Type: "bottom", BaseScore: 0},
	)
	rules := testRules()
	rules.IntensityRules = []IntensityRule{{Emotion: domain.EmotionSad, ItemKey: "top", Threshold: 0, Bonus: 5}}

	history := make([]domain.UsageRecord, 50)
	for i := range history {
		history[i] = domain.UsageRecord{ItemKey: "top"}
	}

	for _, intensity := range []float64{-3, 0, 0.5, 1, 7, math.NaN()} {
		for _, emotion := range []string{domain.EmotionSad, domain.EmotionHappy, ""} {
			for _, s := range Score(catalog, rules, domain.NewEmotionSignal(emotion, intensity), history) {
				assert.GreaterOrEqual(t, s.MatchScore, 0.0)
				assert.LessOrEqual(t, s.MatchScore, 1.0)
			}
		}
	}
}

func TestScore_HistoryBoostCapped(t *testing.T) {
	catalog := mustCatalog(t, domain.CatalogItem{Key: "a", Type: "a", BaseScore: 0.3})
	rules := testRules()
	signal := domain.NewEmotionSignal(domain.EmotionNeutral, 0.5)

	scoreWithUses := func(n int) float64 {
		history := make([]domain.UsageRecord, 0, n+2)
		for range n {
			history = append(history, domain.UsageRecord{ItemKey: "a"})
		}
		history = append(history, domain.UsageRecord{ItemKey: "other"}, domain.UsageRecord{ItemKey: "other"})

		return Score(catalog, rules, signal, history)[0].MatchScore
	}

	base := scoreWithUses(0)
	assert.InDelta(t, 0.2, base, scoreDelta)

	prev := base
	for n := 1; n <= 10; n++ {
		got := scoreWithUses(n)
		assert.GreaterOrEqual(t, got, prev, "uses=%d", n)
		prev = got
	}

	assert.InDelta(t, base+0.20, scoreWithUses(4), scoreDelta)
	assert.InDelta(t, scoreWithUses(4), scoreWithUses(10), scoreDelta)
	assert.InDelta(t, base+0.15, scoreWithUses(3), scoreDelta)
}

func TestScore_EmptyHistoryMatchesNil(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	signal := domain.NewEmotionSignal(domain.EmotionCalm, 0.4)

	assert.Equal(t, Score(catalog, rules, signal, nil), Score(catalog, rules, signal, []domain.UsageRecord{}))
}

func TestScore_Reasons(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	scored := Score(catalog, rules, domain.NewEmotionSignal(domain.EmotionSad, 0.7), nil)

	byKey := make(map[string]string, len(scored))
	for _, s := range scored {
		byKey[s.Item.Key] = s.Reason
	}

	assert.Equal(t, rules.Reasons[domain.EmotionSad][keyHealing], byKey[keyHealing])
	assert.Equal(t, "Recommended workshop app for you", byKey[keyWorkshop])
	assert.Equal(t, "Recommended assistant app for you", byKey[keyAssistant])
}

func TestScore_ReasonFallbackPlaceholders(t *testing.T) {
	catalog := mustCatalog(t, domain.CatalogItem{Key: "k", Name: "Kiosk", Type: "tool", Category: "utility", BaseScore: 0.5})
	rules := testRules()
	rules.ReasonFallback = "{name} is a {category} {type}"

	scored := Score(catalog, rules, domain.NewEmotionSignal("any", 0.5), nil)
	require.Len(t, scored, 1)
	assert.Equal(t, "Kiosk is a utility tool", scored[0].Reason)
}

func TestScore_NilCatalog(t *testing.T) {
	assert.Empty(t, Score(nil, testRules(), domain.NewEmotionSignal(domain.EmotionSad, 1), nil))
}
