package recommend

import (
	"sort"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// Candidate is an item entering personalization with its upstream score.
type Candidate struct {
	ScoredItem
	Score float64
}

// PersonalizedItem is a candidate after context adjustment.
type PersonalizedItem struct {
	ScoredItem
	FinalScore float64
}

// FromScored uses match scores as the upstream score.
func FromScored(items []ScoredItem) []Candidate {
	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = Candidate{ScoredItem: it, Score: it.MatchScore}
	}

	return out
}

// FromPreference uses preference scores as the upstream score.
func FromPreference(items []PreferenceMatch) []Candidate {
	out := make([]Candidate, len(items))
	for i, it := range items {
		out[i] = Candidate{ScoredItem: it.ScoredItem, Score: it.PreferenceScore}
	}

	return out
}

// Personalize adds venue and daypart bonuses to each candidate, clamps the
// result once, and sorts descending with ties in input order.
// A nil context leaves scores unchanged.
func Personalize(items []Candidate, ctx *domain.PersonalizationContext, rules *RuleSet) []PersonalizedItem {
	out := make([]PersonalizedItem, len(items))

	for i, c := range items {
		out[i] = PersonalizedItem{
			ScoredItem: c.ScoredItem,
			FinalScore: normalizeScore(c.Score + rules.contextBonus(ctx, c.Item.Type)),
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})

	return out
}
