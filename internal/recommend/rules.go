package recommend

import (
	"strings"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// IntensityRule adds Bonus to ItemKey when the signal is Emotion and its
// intensity is strictly above Threshold.
type IntensityRule struct {
	Emotion   string  `yaml:"emotion"`
	ItemKey   string  `yaml:"item_key"`
	Threshold float64 `yaml:"threshold"`
	Bonus     float64 `yaml:"bonus"`
}

// RuleSet holds the tunable scoring tables. It is read-only once built.
type RuleSet struct {
	MatchBonus      float64
	MismatchPenalty float64
	HistoryStep     float64
	HistoryCap      float64
	InclusionBonus  float64
	FeatureWeight   float64

	IntensityRules []IntensityRule

	// Reasons maps emotion -> item key -> text.
	Reasons map[string]map[string]string
	// ReasonFallback may contain {type}, {category} and {name}.
	ReasonFallback string

	// VenueBonuses maps venue -> item type -> bonus.
	VenueBonuses map[domain.Venue]map[string]float64
	// TimeBonuses maps daypart -> item type -> bonus.
	TimeBonuses map[domain.TimeOfDay]map[string]float64
}

// intensityBonus sums every rule that fires for the given pair.
func (r *RuleSet) intensityBonus(emotion, itemKey string, intensity float64) float64 {
	var bonus float64

	for _, rule := range r.IntensityRules {
		if rule.Emotion == emotion && rule.ItemKey == itemKey && intensity > rule.Threshold {
			bonus += rule.Bonus
		}
	}

	return bonus
}

func (r *RuleSet) historyBoost(uses int) float64 {
	return min(float64(uses)*r.HistoryStep, r.HistoryCap)
}

func (r *RuleSet) reason(emotion string, item *domain.CatalogItem) string {
	if byKey, ok := r.Reasons[emotion]; ok {
		if text, ok := byKey[item.Key]; ok {
			return text
		}
	}

	return strings.NewReplacer(
		reasonPlaceholderType, item.Type,
		reasonPlaceholderCategory, item.Category,
		reasonPlaceholderName, item.Name,
	).Replace(r.ReasonFallback)
}

func (r *RuleSet) contextBonus(ctx *domain.PersonalizationContext, itemType string) float64 {
	if ctx == nil {
		return 0
	}

	var bonus float64

	if ctx.Venue != domain.VenueUnset {
		bonus += r.VenueBonuses[ctx.Venue][itemType]
	}

	if ctx.TimeOfDay != domain.TimeUnset {
		bonus += r.TimeBonuses[ctx.TimeOfDay][itemType]
	}

	return bonus
}
