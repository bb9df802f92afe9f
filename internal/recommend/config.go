package recommend

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type fileConfig struct {
	Catalog []domain.CatalogItem `yaml:"catalog"`
	Rules   fileRules            `yaml:"rules"`
}

type fileRules struct {
	MatchBonus      *float64 `yaml:"match_bonus"`
	MismatchPenalty *float64 `yaml:"mismatch_penalty"`
	HistoryStep     *float64 `yaml:"history_step"`
	HistoryCap      *float64 `yaml:"history_cap"`
	InclusionBonus  *float64 `yaml:"inclusion_bonus"`
	FeatureWeight   *float64 `yaml:"feature_weight"`

	IntensityRules []IntensityRule               `yaml:"intensity_rules"`
	Reasons        map[string]map[string]string  `yaml:"reasons"`
	ReasonFallback string                        `yaml:"reason_fallback"`
	VenueBonuses   map[string]map[string]float64 `yaml:"venue_bonuses"`
	TimeBonuses    map[string]map[string]float64 `yaml:"time_bonuses"`
}

// LoadDefault builds the catalog and rules bundled with the binary.
func LoadDefault() (*Catalog, *RuleSet, error) {
	return Parse(defaultCatalogYAML)
}

// LoadFile builds the catalog and rules from a YAML file.
// An empty path falls back to the bundled defaults.
func LoadFile(path string) (*Catalog, *RuleSet, error) {
	if path == "" {
		return LoadDefault()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, *RuleSet, error) {
	var fc fileConfig

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fc); err != nil {
		return nil, nil, fmt.Errorf("decode catalog yaml: %w", err)
	}

	catalog, err := NewCatalog(fc.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("build catalog: %w", err)
	}

	return catalog, fc.Rules.toRuleSet(), nil
}

func (f fileRules) toRuleSet() *RuleSet {
	rs := &RuleSet{
		MatchBonus:      valueOr(f.MatchBonus, DefaultMatchBonus),
		MismatchPenalty: valueOr(f.MismatchPenalty, DefaultMismatchPenalty),
		HistoryStep:     valueOr(f.HistoryStep, DefaultHistoryStep),
		HistoryCap:      valueOr(f.HistoryCap, DefaultHistoryCap),
		InclusionBonus:  valueOr(f.InclusionBonus, DefaultInclusionBonus),
		FeatureWeight:   valueOr(f.FeatureWeight, DefaultFeatureWeight),
		IntensityRules:  append([]IntensityRule(nil), f.IntensityRules...),
		Reasons:         make(map[string]map[string]string, len(f.Reasons)),
		ReasonFallback:  f.ReasonFallback,
		VenueBonuses:    make(map[domain.Venue]map[string]float64, len(f.VenueBonuses)),
		TimeBonuses:     make(map[domain.TimeOfDay]map[string]float64, len(f.TimeBonuses)),
	}

	for emotion, byKey := range f.Reasons {
		rs.Reasons[domain.NormalizeLabel(emotion)] = copyMap(byKey)
	}

	for venue, bonuses := range f.VenueBonuses {
		if v := domain.ParseVenue(venue); v != domain.VenueUnset {
			rs.VenueBonuses[v] = copyMap(bonuses)
		}
	}

	for daypart, bonuses := range f.TimeBonuses {
		if t := domain.ParseTimeOfDay(daypart); t != domain.TimeUnset {
			rs.TimeBonuses[t] = copyMap(bonuses)
		}
	}

	if rs.ReasonFallback == "" {
		rs.ReasonFallback = "Recommended " + reasonPlaceholderType + " app"
	}

	return rs
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}

	return *v
}

func copyMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}

	return out
}
