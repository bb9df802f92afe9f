package recommend

import (
	"math"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// ScoredItem is a catalog item with its emotion match score.
type ScoredItem struct {
	Item       *domain.CatalogItem
	MatchScore float64
	Reason     string
}

// Score computes one ScoredItem per catalog item, in catalog order.
// Unknown emotions take the mismatch branch for every item.
func Score(catalog *Catalog, rules *RuleSet, signal domain.EmotionSignal, history []domain.UsageRecord) []ScoredItem {
	if catalog == nil {
		return []ScoredItem{}
	}

	uses := countUses(history)
	out := make([]ScoredItem, 0, catalog.Len())

	for _, item := range catalog.items {
		score := item.BaseScore

		if item.SuitableFor(signal.Type) {
			score += rules.MatchBonus
		} else {
			score += rules.MismatchPenalty
		}

		score += rules.intensityBonus(signal.Type, item.Key, signal.Intensity)
		score += rules.historyBoost(uses[item.Key])

		out = append(out, ScoredItem{
			Item:       item,
			MatchScore: normalizeScore(score),
			Reason:     rules.reason(signal.Type, item),
		})
	}

	return out
}

func countUses(history []domain.UsageRecord) map[string]int {
	uses := make(map[string]int, len(history))
	for _, h := range history {
		uses[h.ItemKey]++
	}

	return uses
}

// normalizeScore clamps to [0,1] and rounds to three decimals.
func normalizeScore(v float64) float64 {
	return math.Round(domain.Clamp01(v)*scorePrecision) / scorePrecision
}
