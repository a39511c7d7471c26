package service

import (
	"context"
	"fmt"

	"sufra-pos/internal/domain"
)

// CatalogLookup resolves menu references to price and availability data.
// Pure reads, no mutation.
type CatalogLookup struct {
	catalog CatalogRepository
}

func NewCatalogLookup(catalog CatalogRepository) *CatalogLookup {
	return &CatalogLookup{catalog: catalog}
}

func (c *CatalogLookup) Resolve(ctx context.Context, itemType domain.LineItemType, id int) (*domain.CatalogEntry, error) {
	entry, err := c.catalog.GetCatalogEntry(ctx, itemType, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s %d: %w", itemType, id, err)
	}
	if entry == nil {
		return nil, notFoundf("%s %d", itemType, id)
	}
	return entry, nil
}

func (c *CatalogLookup) ResolveCookingMethod(ctx context.Context, id int) (*domain.CookingMethod, error) {
	method, err := c.catalog.GetCookingMethod(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cooking method %d: %w", id, err)
	}
	if method == nil {
		return nil, notFoundf("cooking method %d", id)
	}
	return method, nil
}
