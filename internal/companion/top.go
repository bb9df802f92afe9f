package companion

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lueurxax/soundscape/internal/core/domain"
)

// TopApp is a catalog item with its recorded usage count.
type TopApp struct {
	Item       *domain.CatalogItem `json:"app"`
	UsageCount int                 `json:"usage_count"`
}

// TopApps orders the catalog by recorded usage since the given time.
// Ties keep catalog order; unused items are listed with a zero count.
func (s *Service) TopApps(ctx context.Context, since time.Time, limit int) ([]TopApp, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}

	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	counts, err := s.repo.AppUsageCounts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("load app usage counts: %w", err)
	}

	items := s.engine.Catalog().Items()
	top := make([]TopApp, 0, len(items))

	for _, item := range items {
		top = append(top, TopApp{Item: item, UsageCount: counts[item.Key]})
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].UsageCount > top[j].UsageCount
	})

	if len(top) > limit {
		top = top[:limit]
	}

	return top, nil
}
