package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

// Template renders replies without a text model.
type Template struct {
	currency string
}

func NewTemplate(cfg model.ResponsePromptConfig) *Template {
	return &Template{currency: cfg.Currency}
}

func (t *Template) Respond(_ context.Context, in Input) (string, error) {
	var lines []string
	switch in.Plan.Action {
	case model.ActionAddToCart:
		lines = t.added(in)
	case model.ActionShowCart:
		lines = t.cart(in)
	default:
		lines = t.menu(in)
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return ExploreMessage, nil
	}
	return text, nil
}

func (t *Template) menu(in Input) []string {
	var lines []string
	if IsFirstGreet(in) {
		lines = append(lines, welcomeLine)
	}
	groups := GroupByCategory(in.Menu)
	if len(groups) == 0 {
		return append(lines, ExploreMessage)
	}
	for _, g := range groups {
		lines = append(lines, "", g.Category+":")
		for _, it := range g.Items {
			lines = append(lines, fmt.Sprintf("• %s — %s (%s)", it.Name, money(t.currency, it.Price), g.Category))
		}
	}
	return lines
}

func (t *Template) added(in Input) []string {
	summary := sessionSummary(in.Session)
	if len(in.Added) == 0 {
		if summary.NumItems == 0 {
			return []string{"I couldn't find that on the menu.", ExploreMessage}
		}
		return []string{"Nothing new was added to your cart.", "", formatSummary(t.currency, summary)}
	}

	lines := []string{"Added to cart:"}
	for _, l := range in.Added {
		lines = append(lines, formatLine(t.currency, l))
	}
	return append(lines, "", formatSummary(t.currency, summary))
}

func (t *Template) cart(in Input) []string {
	if in.Session == nil || len(in.Session.Cart) == 0 {
		return []string{"Your cart is empty.", ExploreMessage}
	}
	lines := []string{"Your cart:"}
	for _, l := range in.Session.Cart {
		lines = append(lines, formatLine(t.currency, l))
	}
	return append(lines, "", formatSummary(t.currency, in.Session.CartSummary))
}

func sessionSummary(s *model.SessionState) model.CartSummary {
	if s == nil {
		return model.CartSummary{}
	}
	return s.CartSummary
}

var _ Responder = (*Template)(nil)
