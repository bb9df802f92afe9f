package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

func TestFilterByPreference(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	ranked := Rank(Score(catalog, rules, domain.NewEmotionSignal(domain.EmotionCalm, 0.5), nil)).Ordered

	tests := []struct {
		name       string
		pref       *domain.UserPreference
		wantKeys   []string
		wantScores map[string]float64
	}{
		{
			name:       "nil preference keeps everything at inclusion bonus",
			pref:       nil,
			wantKeys:   []string{keyTheatre, keyAssistant, keyWorkshop, keyHealing},
			wantScores: map[string]float64{keyTheatre: 0.3, keyAssistant: 0.3, keyWorkshop: 0.3, keyHealing: 0.3},
		},
		{
			name: "excluded types dropped",
			pref: &domain.UserPreference{ExcludedTypes: []string{keyTheatre, keyWorkshop}},
			wantKeys: []string{keyAssistant, keyHealing},
		},
		{
			name: "feature overlap reorders",
			pref: &domain.UserPreference{PreferredFeatures: []string{"healing_music", "guided_meditation", "voice_chat", "unknown"}},
			wantKeys: []string{keyHealing, keyAssistant, keyTheatre, keyWorkshop},
			wantScores: map[string]float64{
				keyHealing:   0.55,
				keyAssistant: 0.425,
				keyTheatre:   0.3,
				keyWorkshop:  0.3,
			},
		},
		{
			name: "duplicate preferred features counted once",
			pref: &domain.UserPreference{PreferredFeatures: []string{"voice_chat", "voice_chat"}},
			wantScores: map[string]float64{
				keyAssistant: 0.8,
				keyTheatre:   0.3,
			},
			wantKeys: []string{keyAssistant, keyTheatre, keyWorkshop, keyHealing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByPreference(ranked, tt.pref, rules)

			keys := make([]string, len(got))
			for i, m := range got {
				keys[i] = m.Item.Key
			}

			assert.Equal(t, tt.wantKeys, keys)

			for _, m := range got {
				if want, ok := tt.wantScores[m.Item.Key]; ok {
					assert.InDelta(t, want, m.PreferenceScore, scoreDelta, m.Item.Key)
				}
			}
		})
	}
}

func TestFilterByPreference_ExcludedNeverAppear(t *testing.T) {
	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	for _, emotion := range domain.KnownEmotions {
		for _, intensity := range []float64{0, 0.7, 1} {
			ranked := Rank(Score(catalog, rules, domain.NewEmotionSignal(emotion, intensity), nil)).Ordered

			for _, excluded := range []string{keyHealing, keyTheatre, keyWorkshop, keyAssistant} {
				pref := &domain.UserPreference{
					ExcludedTypes:     []string{excluded},
					PreferredFeatures: []string{"companion_chat", "ai_podcast", "hum_to_song", "voice_chat"},
				}

				for _, m := range FilterByPreference(ranked, pref, rules) {
					assert.NotEqual(t, excluded, m.Item.Type)
				}
			}
		}
	}
}

func TestFilterByPreference_NonPositiveScoresDropped(t *testing.T) {
	rules := testRules()
	rules.InclusionBonus = 0

	items := scoredFixture(0.9, 0.8)
	items[0].Item.Features = []string{"f"}

	got := FilterByPreference(items, &domain.UserPreference{PreferredFeatures: []string{"f"}}, rules)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Item.Key)

	assert.Empty(t, FilterByPreference(items, nil, rules))
}
