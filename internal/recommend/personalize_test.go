package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

func TestPersonalize(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	// sad 0.5: healing 0.95, workshop 0.75, theatre 0.65, assistant 0.6
	ranked := Rank(Score(catalog, rules, domain.NewEmotionSignal(domain.EmotionSad, 0.5), nil)).Ordered

	tests := []struct {
		name       string
		ctx        *domain.PersonalizationContext
		wantKeys   []string
		wantScores map[string]float64
	}{
		{
			name:     "nil context",
			ctx:      nil,
			wantKeys: []string{keyHealing, keyWorkshop, keyTheatre, keyAssistant},
			wantScores: map[string]float64{
				keyHealing: 0.95, keyWorkshop: 0.75, keyTheatre: 0.65, keyAssistant: 0.6,
			},
		},
		{
			name:     "fixed venue",
			ctx:      &domain.PersonalizationContext{Venue: domain.VenueFixed},
			wantKeys: []string{keyHealing, keyWorkshop, keyTheatre, keyAssistant},
			wantScores: map[string]float64{
				keyHealing: 0.95, keyWorkshop: 0.9, keyTheatre: 0.73, keyAssistant: 0.6,
			},
		},
		{
			name:     "night",
			ctx:      &domain.PersonalizationContext{TimeOfDay: domain.TimeNight},
			wantKeys: []string{keyHealing, keyWorkshop, keyTheatre, keyAssistant},
			wantScores: map[string]float64{
				keyHealing: 1.0, keyTheatre: 0.75, keyWorkshop: 0.75, keyAssistant: 0.6,
			},
		},
		{
			name:     "fixed venue at night",
			ctx:      &domain.PersonalizationContext{Venue: domain.VenueFixed, TimeOfDay: domain.TimeNight},
			wantKeys: []string{keyHealing, keyWorkshop, keyTheatre, keyAssistant},
			wantScores: map[string]float64{
				keyHealing: 1.0, keyWorkshop: 0.9, keyTheatre: 0.83, keyAssistant: 0.6,
			},
		},
		{
			name:     "mobile in the morning changes nothing",
			ctx:      &domain.PersonalizationContext{Venue: domain.VenueMobile, TimeOfDay: domain.TimeMorning},
			wantKeys: []string{keyHealing, keyWorkshop, keyTheatre, keyAssistant},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Personalize(FromScored(ranked), tt.ctx, rules)

			keys := make([]string, len(got))
			for i, p := range got {
				keys[i] = p.Item.Key

				assert.GreaterOrEqual(t, p.FinalScore, 0.0)
				assert.LessOrEqual(t, p.FinalScore, 1.0)
			}

			assert.Equal(t, tt.wantKeys, keys)

			for _, p := range got {
				if want, ok := tt.wantScores[p.Item.Key]; ok {
					assert.InDelta(t, want, p.FinalScore, scoreDelta, p.Item.Key)
				}
			}
		})
	}
}

func TestPersonalize_FixedVenueKeepsNonBoostedOrder(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	boosted := rules.VenueBonuses[domain.VenueFixed]
	ctx := &domain.PersonalizationContext{Venue: domain.VenueFixed}

	emotions := append([]string{"unknown"}, domain.KnownEmotions...)

	for _, emotion := range emotions {
		for _, intensity := range []float64{0, 0.3, 0.61, 0.9, 1} {
			ranked := Rank(Score(catalog, rules, domain.NewEmotionSignal(emotion, intensity), nil)).Ordered

			before := nonBoostedOrder(FromScored(ranked), boosted)

			after := make([]string, 0, len(ranked))
			for _, p := range Personalize(FromScored(ranked), ctx, rules) {
				if _, ok := boosted[p.Item.Type]; !ok {
					after = append(after, p.Item.Key)
				}
			}

			assert.Equal(t, before, after, "emotion=%s intensity=%v", emotion, intensity)
		}
	}
}

func nonBoostedOrder(items []Candidate, boosted map[string]float64) []string {
	out := make([]string, 0, len(items))
	for _, c := range items {
		if _, ok := boosted[c.Item.Type]; !ok {
			out = append(out, c.Item.Key)
		}
	}

	return out
}

func TestPersonalize_FromPreferenceUsesPreferenceScore(t *testing.T) {
	rules := testRules()
	rules.VenueBonuses = map[domain.Venue]map[string]float64{domain.VenueFixed: {"b": 0.5}}

	items := scoredFixture(0.9, 0.1)
	matches := []PreferenceMatch{
		{ScoredItem: items[0], PreferenceScore: 0.3},
		{ScoredItem: items[1], PreferenceScore: 0.3},
	}

	got := Personalize(FromPreference(matches), &domain.PersonalizationContext{Venue: domain.VenueFixed}, rules)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Item.Key)
	assert.InDelta(t, 0.8, got[0].FinalScore, scoreDelta)
	assert.InDelta(t, 0.3, got[1].FinalScore, scoreDelta)
}

func TestPersonalize_ClampsOnce(t *testing.T) {
	rules := testRules()
	rules.TimeBonuses = map[domain.TimeOfDay]map[string]float64{domain.TimeNight: {"a": 0.5, "b": -2}}

	got := Personalize(FromScored(scoredFixture(0.8, 0.4)), &domain.PersonalizationContext{TimeOfDay: domain.TimeNight}, rules)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.0, got[0].FinalScore, scoreDelta)
	assert.InDelta(t, 0.0, got[1].FinalScore, scoreDelta)
}
