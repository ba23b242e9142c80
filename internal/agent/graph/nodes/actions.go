package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chative-restaurant-poc/server/internal/agent/cart"
	"github.com/Chative-restaurant-poc/server/internal/agent/graph/planner"
	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/catalog"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

// Route maps a plan to the action node that handles it. Greet shares the browse handler.
func Route(p model.Plan) string {
	switch p.Action {
	case model.ActionAddToCart:
		return NodeActAdd
	case model.ActionShowCart:
		return NodeActShowCart
	default:
		return NodeActBrowse
	}
}

// Browse runs the plan's search. A failed or empty search is retried once
// with no query and no filters; a second failure yields no items. It never errors.
func Browse(ctx context.Context, searcher catalog.Searcher, p model.Plan, conversationID string) []model.MenuItem {
	query := p.Query
	if planner.IsGreeting(query) {
		query = ""
	}

	items, err := searcher.Search(ctx, query, p.Filters)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", conversationID).Str("query", query).Msg("menu search failed, retrying unfiltered")
	}
	if err == nil && len(items) > 0 {
		return items
	}

	items, err = searcher.Search(ctx, "", model.Filters{})
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", conversationID).Msg("unfiltered menu search failed")
		return []model.MenuItem{}
	}
	return items
}

// ResolveItem finds the menu item for a requested name: the first hit under
// the plan filters, else the first hit with no filters. ok is false when
// nothing matches.
func ResolveItem(ctx context.Context, searcher catalog.Searcher, name string, filters model.Filters) (model.MenuItem, bool, error) {
	items, err := searcher.Search(ctx, name, filters)
	if err != nil {
		return model.MenuItem{}, false, fmt.Errorf("resolve %q: %w", name, err)
	}
	if len(items) == 0 && !filters.IsZero() {
		items, err = searcher.Search(ctx, name, model.Filters{})
		if err != nil {
			return model.MenuItem{}, false, fmt.Errorf("resolve %q: %w", name, err)
		}
	}
	if len(items) == 0 {
		return model.MenuItem{}, false, nil
	}
	return items[0], true, nil
}

// AddItems resolves every requested item and returns the cart lines to append,
// in request order. Nameless and unresolvable requests are skipped.
func AddItems(ctx context.Context, searcher catalog.Searcher, p model.Plan, conversationID string) ([]model.CartLineItem, error) {
	lines := make([]model.CartLineItem, 0, len(p.ItemsToAdd))
	for _, req := range p.ItemsToAdd {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			continue
		}
		item, ok, err := ResolveItem(ctx, searcher, name, p.Filters)
		if err != nil {
			return nil, err
		}
		if !ok {
			logx.Debug().Str("conversation_id", conversationID).Str("name", name).Msg("no menu match, skipping item")
			continue
		}

		req.Name = name
		line, dropped := cart.NewLine(item, req)
		if len(dropped) > 0 {
			logx.Debug().Str("conversation_id", conversationID).Str("item", item.Name).Strs("addons", dropped).Msg("dropping unknown addons")
		}
		lines = append(lines, line)
	}
	return lines, nil
}
