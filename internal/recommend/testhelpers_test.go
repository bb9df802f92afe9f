package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

const (
	keyHealing   = "healing"
	keyTheatre   = "theatre"
	keyWorkshop  = "workshop"
	keyAssistant = "assistant"

	scoreDelta = 1e-9
)

func defaultEngine(t *testing.T) *Engine {
	t.Helper()

	catalog, rules, err := LoadDefault()
	require.NoError(t, err)

	return NewEngine(catalog, rules, 0)
}

func testRules() *RuleSet {
	return (fileRules{}).toRuleSet()
}

func mustCatalog(t *testing.T, items ...domain.CatalogItem) *Catalog {
	t.Helper()

	c, err := NewCatalog(items)
	require.NoError(t, err)

	return c
}

func keysOf(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Item.Key
	}

	return out
}

func findRec(recs []Recommendation, key string) Recommendation {
	for _, r := range recs {
		if r.Item.Key == key {
			return r
		}
	}

	return Recommendation{}
}
