package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chative-restaurant-poc/server/internal/agent/graph/prompts"
	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

const (
	// ExploreMessage is the reply when there is nothing concrete to show.
	ExploreMessage = "Take a look at our menu to get started: try 'show menu' or 'add 2 Margherita'."

	welcomeLine   = "Welcome! Here's our menu (say things like 'add 2 Margherita' or 'show cart'):"
	itemsPerGroup = 3
	defaultSymbol = "₹"
	uncategorized = "Other"
)

// Input is everything a responder may read for one turn. Session is read-only here.
type Input struct {
	ConversationID string
	Plan           model.Plan
	Session        *model.SessionState
	// Added holds the cart lines appended during this turn, in order.
	Added []model.CartLineItem
	// Menu is the item preview for greet/browse turns.
	Menu []model.MenuItem
}

// Responder renders the reply text of one turn.
type Responder interface {
	Respond(ctx context.Context, in Input) (string, error)
}

// Group is one category of a menu preview.
type Group struct {
	Category string
	Items    []model.MenuItem
}

// GroupByCategory buckets items by category and returns the buckets in the
// preferred display order, at most three items each. Categories outside that
// order are not shown.
func GroupByCategory(items []model.MenuItem) []Group {
	byCat := make(map[string][]model.MenuItem)
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = uncategorized
		}
		byCat[cat] = append(byCat[cat], it)
	}

	groups := make([]Group, 0, len(prompts.Categories))
	for _, cat := range prompts.Categories {
		picks := byCat[cat]
		if len(picks) == 0 {
			continue
		}
		if len(picks) > itemsPerGroup {
			picks = picks[:itemsPerGroup]
		}
		groups = append(groups, Group{Category: cat, Items: picks})
	}
	return groups
}

// IsFirstGreet reports whether this turn should carry the one-time welcome.
func IsFirstGreet(in Input) bool {
	return in.Plan.Action == model.ActionGreet && (in.Session == nil || !in.Session.Welcomed)
}

func money(symbol string, v float64) string {
	if symbol == "" {
		symbol = defaultSymbol
	}
	return fmt.Sprintf("%s%.2f", symbol, v)
}

func formatLine(symbol string, l model.CartLineItem) string {
	var b strings.Builder
	b.WriteString("• ")
	b.WriteString(l.Name)
	if l.Variant != "" {
		fmt.Fprintf(&b, " [%s]", l.Variant)
	}
	fmt.Fprintf(&b, " x%d", l.Qty)
	if len(l.Addons) > 0 {
		b.WriteString(", +")
		b.WriteString(strings.Join(l.Addons, ", "))
	}
	b.WriteString(" — ")
	b.WriteString(money(symbol, l.LineTotal))
	return b.String()
}

func formatSummary(symbol string, s model.CartSummary) string {
	return fmt.Sprintf("Subtotal: %s  |  Items: %d", money(symbol, s.Subtotal), s.NumItems)
}
