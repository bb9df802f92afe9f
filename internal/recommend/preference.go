package recommend

import (
	"math"
	"sort"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// PreferenceMatch is a scored item that survived the preference filter.
type PreferenceMatch struct {
	ScoredItem
	PreferenceScore float64
}

// FilterByPreference drops items of excluded types and scores the rest by
// feature overlap plus the flat inclusion bonus. A nil preference is treated
// as empty. Output is sorted by preference score, ties in input order.
func FilterByPreference(items []ScoredItem, pref *domain.UserPreference, rules *RuleSet) []PreferenceMatch {
	if pref == nil {
		pref = &domain.UserPreference{}
	}

	excluded := toSet(pref.ExcludedTypes)
	preferred := toSet(pref.PreferredFeatures)

	out := make([]PreferenceMatch, 0, len(items))

	for _, it := range items {
		if _, skip := excluded[it.Item.Type]; skip {
			continue
		}

		score := rules.InclusionBonus

		if len(preferred) > 0 {
			overlap := 0
			for f := range toSet(it.Item.Features) {
				if _, ok := preferred[f]; ok {
					overlap++
				}
			}

			score += float64(overlap) / float64(len(preferred)) * rules.FeatureWeight
		}

		if score <= 0 {
			continue
		}

		out = append(out, PreferenceMatch{
			ScoredItem:      it,
			PreferenceScore: math.Round(score*scorePrecision) / scorePrecision,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PreferenceScore > out[j].PreferenceScore
	})

	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}
