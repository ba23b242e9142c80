package cart

import (
	"math"
	"strings"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

// Ledger is the ordered list of cart lines owned by one session.
// Lines are only ever appended; re-adding an item creates a new line.
type Ledger []model.CartLineItem

// Append adds line to the end of the ledger.
func (l *Ledger) Append(line model.CartLineItem) {
	*l = append(*l, line)
}

// Summary recomputes subtotal and item count from the current lines.
func (l Ledger) Summary() model.CartSummary {
	var subtotal float64
	var n int
	for _, line := range l {
		subtotal += line.LineTotal
		n += line.Qty
	}
	return model.CartSummary{Subtotal: Round2(subtotal), NumItems: n}
}

// NewLine snapshots item into a cart line for req. Requested addons that the
// item does not offer are returned in dropped and do not affect the total.
func NewLine(item model.MenuItem, req model.ItemRequest) (line model.CartLineItem, dropped []string) {
	qty := req.Qty
	if qty <= 0 {
		qty = 1
	}

	selected := make([]string, 0, len(req.Addons))
	seen := make(map[string]struct{}, len(req.Addons))
	var addonTotal float64
	for _, name := range req.Addons {
		addon, ok := item.FindAddon(name)
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		if _, dup := seen[addon.Name]; dup {
			continue
		}
		seen[addon.Name] = struct{}{}
		selected = append(selected, addon.Name)
		addonTotal += addon.Price
	}

	return model.CartLineItem{
		ID:        item.ID,
		Name:      item.Name,
		Qty:       qty,
		UnitPrice: item.Price,
		Variant:   resolveVariant(item, req.Variant),
		Addons:    selected,
		LineTotal: Round2((item.Price + addonTotal) * float64(qty)),
	}, dropped
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// resolveVariant returns the catalog spelling of a known variant, or the request as given.
func resolveVariant(item model.MenuItem, variant string) string {
	variant = strings.TrimSpace(variant)
	for _, v := range item.Variants {
		if strings.EqualFold(v, variant) {
			return v
		}
	}
	return variant
}
