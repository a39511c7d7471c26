package service

import (
	"context"

	"sufra-pos/internal/domain"
)

// Base preparation minutes when the catalog record carries no estimate.
const (
	itemBaseMinutes   = 5
	recipeBaseMinutes = 15
	mealBaseMinutes   = 20
)

type OrderLineRequest struct {
	ItemType            domain.LineItemType `json:"item_type"`
	RefID               int                 `json:"ref_id"`
	Quantity            int                 `json:"quantity"`
	CookingMethodID     *int                `json:"cooking_method_id,omitempty"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
}

// ValidatedLine is the priced and time-estimated result for one request line.
type ValidatedLine struct {
	Req              OrderLineRequest
	Name             string
	UnitPrice        float64
	TotalPrice       float64
	EstimatedMinutes int
}

// ItemValidator validates a single requested line and computes its price and
// preparation estimate. All lines of an order are validated before any write.
type ItemValidator struct {
	lookup *CatalogLookup
}

func NewItemValidator(lookup *CatalogLookup) *ItemValidator {
	return &ItemValidator{lookup: lookup}
}

func (v *ItemValidator) Validate(ctx context.Context, line OrderLineRequest) (*ValidatedLine, error) {
	switch line.ItemType {
	case domain.LineTypeItem, domain.LineTypeRecipe, domain.LineTypeMeal:
	default:
		return nil, invalidInputf("unknown item type %q", line.ItemType)
	}
	if line.Quantity <= 0 {
		return nil, invalidInputf("quantity must be positive for %s %d", line.ItemType, line.RefID)
	}

	entry, err := v.lookup.Resolve(ctx, line.ItemType, line.RefID)
	if err != nil {
		return nil, err
	}
	if !entry.IsAvailable {
		return nil, conflictf("%s %q is not available", line.ItemType, entry.Name)
	}

	// Stock is only tracked for plain items, and only when the catalog
	// record carries a stock figure.
	if line.ItemType == domain.LineTypeItem && entry.CurrentStock != nil && *entry.CurrentStock < line.Quantity {
		return nil, &InsufficientStockError{
			Name:      entry.Name,
			Requested: line.Quantity,
			Available: *entry.CurrentStock,
		}
	}

	baseMinutes := itemBaseMinutes
	switch line.ItemType {
	case domain.LineTypeRecipe:
		baseMinutes = recipeBaseMinutes
		if entry.PrepTime != nil {
			baseMinutes = *entry.PrepTime
		}
	case domain.LineTypeMeal:
		baseMinutes = mealBaseMinutes
		if entry.PrepTime != nil {
			baseMinutes = *entry.PrepTime
		}
	}

	unitPrice := entry.BasePrice
	lineMinutes := baseMinutes

	if line.CookingMethodID != nil {
		method, err := v.lookup.ResolveCookingMethod(ctx, *line.CookingMethodID)
		if err != nil {
			return nil, err
		}
		if !method.IsAvailable {
			return nil, conflictf("cooking method %q is not available", method.Name)
		}
		unitPrice += method.AdditionalCost
		lineMinutes += method.ExtraTime
	}

	return &ValidatedLine{
		Req:              line,
		Name:             entry.Name,
		UnitPrice:        round2(unitPrice),
		TotalPrice:       round2(unitPrice * float64(line.Quantity)),
		EstimatedMinutes: lineMinutes * line.Quantity,
	}, nil
}
