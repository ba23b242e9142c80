package planner

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

// Keyword is the deterministic planner used when no text model is configured.
type Keyword struct{}

func NewKeyword() *Keyword {
	return &Keyword{}
}

func (k *Keyword) Plan(_ context.Context, in Input) (model.Plan, error) {
	t := strings.ToLower(strings.TrimSpace(in.Text))
	greeting := IsGreeting(t)

	p := model.BrowsePlan()
	switch {
	case strings.Contains(t, "cart"):
		p.Action = model.ActionShowCart
	case strings.Contains(t, "add "):
		p.Action = model.ActionAddToCart
		p.ItemsToAdd = ExtractItems(in.Text)
	case greeting:
		p.Action = model.ActionGreet
	}
	if !greeting {
		p.Query = strings.TrimSpace(in.Text)
	}
	return p, nil
}

var (
	addKeyword = regexp.MustCompile(`(?i)\badd\s+`)
	cartSuffix = regexp.MustCompile(`(?i)\s+to\s+(my\s+|the\s+)?cart\s*$`)
	// "and" only starts a new item when a quantity or article follows it,
	// so names such as "Mac and Cheese" stay whole.
	itemAnd    = regexp.MustCompile(`(?i)\s+and\s+(\d+|an?|one)\s`)
	withAddons = regexp.MustCompile(`(?i)\s+with\s+`)
	addonSep   = regexp.MustCompile(`(?i)\s*,\s*|\s+and\s+`)
)

// ExtractItems pulls item requests out of an "add ..." message, for example
// "add 2 Margherita with extra cheese and a cola to my cart".
func ExtractItems(text string) []model.ItemRequest {
	out := []model.ItemRequest{}

	loc := addKeyword.FindStringIndex(text)
	if loc == nil {
		return out
	}
	rest := cartSuffix.ReplaceAllString(strings.TrimSpace(text[loc[1]:]), "")

	for _, part := range splitItems(rest) {
		if req, ok := parseItem(part); ok {
			out = append(out, req)
		}
	}
	return out
}

// splitItems splits on commas, then on "and" when it introduces a new quantity.
func splitItems(s string) []string {
	var parts []string
	for _, chunk := range strings.Split(s, ",") {
		start := 0
		for _, m := range itemAnd.FindAllStringSubmatchIndex(chunk, -1) {
			parts = append(parts, chunk[start:m[0]])
			start = m[2]
		}
		parts = append(parts, chunk[start:])
	}
	return parts
}

func parseItem(part string) (model.ItemRequest, bool) {
	part = strings.TrimSpace(cartSuffix.ReplaceAllString(part, ""))
	if part == "" {
		return model.ItemRequest{}, false
	}

	var addons []string
	if loc := withAddons.FindStringIndex(part); loc != nil {
		for _, a := range addonSep.Split(part[loc[1]:], -1) {
			if a = strings.TrimSpace(a); a != "" {
				addons = append(addons, a)
			}
		}
		part = part[:loc[0]]
	}

	qty := 1
	fields := strings.Fields(part)
	if len(fields) == 0 {
		return model.ItemRequest{}, false
	}
	if n, err := strconv.Atoi(fields[0]); err == nil && len(fields) > 1 {
		if n > 0 {
			qty = n
		}
		fields = fields[1:]
	} else if len(fields) > 1 && isArticle(fields[0]) {
		fields = fields[1:]
	}
	return model.ItemRequest{Name: strings.Join(fields, " "), Qty: qty, Addons: addons}, true
}

func isArticle(w string) bool {
	switch strings.ToLower(w) {
	case "a", "an", "one":
		return true
	}
	return false
}
