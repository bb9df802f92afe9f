package recommend

import (
	"fmt"

	"github.com/lueurxax/soundscape/internal/core/domain"
	"github.com/lueurxax/soundscape/internal/core/errors"
)

// Catalog is the immutable registry of recommendable items.
// Iteration order is the order items were supplied in.
type Catalog struct {
	items []*domain.CatalogItem
	byKey map[string]*domain.CatalogItem
}

// NewCatalog validates items and builds a catalog from copies of them.
func NewCatalog(items []domain.CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]*domain.CatalogItem, 0, len(items)),
		byKey: make(map[string]*domain.CatalogItem, len(items)),
	}

	for i := range items {
		item := items[i]

		if item.Key == "" {
			return nil, fmt.Errorf("item %d: %w", i, errors.ErrEmptyCatalogKey)
		}

		if _, dup := c.byKey[item.Key]; dup {
			return nil, fmt.Errorf("%q: %w", item.Key, errors.ErrDuplicateCatalogKey)
		}

		if item.BaseScore < 0 || item.BaseScore > 1 || item.BaseScore != item.BaseScore {
			return nil, fmt.Errorf("%q base score %v: %w", item.Key, item.BaseScore, errors.ErrInvalidBaseScore)
		}

		item.Features = append([]string(nil), item.Features...)
		item.SuitableEmotions = append([]string(nil), item.SuitableEmotions...)

		c.items = append(c.items, &item)
		c.byKey[item.Key] = &item
	}

	return c, nil
}

// Items returns the catalog items in catalog order.
// Callers must not modify the returned items.
func (c *Catalog) Items() []*domain.CatalogItem {
	out := make([]*domain.CatalogItem, len(c.items))
	copy(out, c.items)

	return out
}

// Get looks up an item by key.
func (c *Catalog) Get(key string) (*domain.CatalogItem, bool) {
	item, ok := c.byKey[key]
	return item, ok
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Position returns the catalog index of key, or -1 when unknown.
func (c *Catalog) Position(key string) int {
	for i, item := range c.items {
		if item.Key == key {
			return i
		}
	}

	return -1
}
