package service

import (
	"context"

	"foodhouse/internal/apperr"
	"foodhouse/internal/dto"
	"foodhouse/internal/money"
	"foodhouse/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type resolvedOption struct {
	optionID        uuid.UUID
	groupID         uuid.UUID
	name            string
	additionalPrice decimal.Decimal
}

// resolvedLine is the authoritative pricing of one cart/order line, computed
// fresh from the menu at mutation or checkout time. Cart snapshots are never
// trusted across that boundary.
type resolvedLine struct {
	menuItemID uuid.UUID
	name       string
	basePrice  decimal.Decimal
	finalPrice decimal.Decimal
	options    []resolvedOption
}

// resolveLine validates a menu item reference plus its customization
// selections and prices the line: finalPrice = basePrice + Σ option deltas.
// Selections are checked against every group's min/max bounds, including
// groups the client selected nothing from.
func resolveLine(ctx context.Context, menus repository.MenuRepository, menuItemID uuid.UUID, selections []dto.OptionSelection) (*resolvedLine, error) {
	item, err := menus.FindItemByID(ctx, menuItemID)
	if err != nil {
		return nil, apperr.Unavailable("menu item %s is not available", menuItemID)
	}
	if item.IsHidden {
		return nil, apperr.Unavailable("menu item %q is not available", item.Name)
	}

	// Index the item's option catalog
	type optionRef struct {
		groupID uuid.UUID
		name    string
		price   decimal.Decimal
	}
	catalog := make(map[uuid.UUID]optionRef)
	for _, g := range item.CustomizationGroups {
		for _, o := range g.Options {
			catalog[o.ID] = optionRef{groupID: g.ID, name: o.Name, price: o.AdditionalPrice}
		}
	}

	seen := make(map[uuid.UUID]bool, len(selections))
	perGroup := make(map[uuid.UUID]int)
	resolved := make([]resolvedOption, 0, len(selections))
	final := item.BasePrice

	for _, sel := range selections {
		oid, err := uuid.Parse(sel.OptionID)
		if err != nil {
			return nil, apperr.Validation("invalid option id %q", sel.OptionID)
		}
		if seen[oid] {
			return nil, apperr.Validation("option %s selected more than once", oid)
		}
		seen[oid] = true

		ref, ok := catalog[oid]
		if !ok {
			return nil, apperr.Validation("option %s does not belong to item %q", oid, item.Name)
		}
		perGroup[ref.groupID]++
		final = final.Add(ref.price)
		resolved = append(resolved, resolvedOption{
			optionID:        oid,
			groupID:         ref.groupID,
			name:            ref.name,
			additionalPrice: ref.price,
		})
	}

	for _, g := range item.CustomizationGroups {
		n := perGroup[g.ID]
		if n < g.MinSelectable {
			return nil, apperr.Validation("group %q requires at least %d selection(s)", g.Name, g.MinSelectable)
		}
		if g.MaxSelectable > 0 && n > g.MaxSelectable {
			return nil, apperr.Validation("group %q allows at most %d selection(s)", g.Name, g.MaxSelectable)
		}
	}

	return &resolvedLine{
		menuItemID: item.ID,
		name:       item.Name,
		basePrice:  item.BasePrice,
		finalPrice: money.Round(final),
		options:    resolved,
	}, nil
}
