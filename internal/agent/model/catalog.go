package model

import "strings"

// MaxSearchResults caps every catalog query result.
const MaxSearchResults = 20

// Addon is an optional extra that can be attached to a menu item.
type Addon struct {
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

// MenuItem is one orderable catalog entry. Items are loaded once and never mutated.
type MenuItem struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category" yaml:"category"`
	Price       float64  `json:"price" yaml:"price"`
	Tags        []string `json:"tags" yaml:"tags"`
	Addons      []Addon  `json:"addons" yaml:"addons"`
	Variants    []string `json:"variants" yaml:"variants"`
	IsAvailable bool     `json:"is_available" yaml:"is_available"`
}

// HasTags reports whether the item's tag set is a superset of tags.
func (m MenuItem) HasTags(tags []string) bool {
	have := make(map[string]struct{}, len(m.Tags))
	for _, t := range m.Tags {
		have[t] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

// FindAddon returns the item's addon matching name case-insensitively.
func (m MenuItem) FindAddon(name string) (Addon, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, a := range m.Addons {
		if strings.ToLower(a.Name) == key {
			return a, true
		}
	}
	return Addon{}, false
}

// Filters narrows a catalog search. Nil or empty fields do not constrain.
type Filters struct {
	MaxPrice *float64 `json:"max_price,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Category string   `json:"category,omitempty"`
}

// IsZero reports whether no filter field is set.
func (f Filters) IsZero() bool {
	return f.MaxPrice == nil && f.MinPrice == nil && len(f.Tags) == 0 && strings.TrimSpace(f.Category) == ""
}

// Match reports whether item satisfies every set filter. Availability is not checked here.
func (f Filters) Match(item MenuItem) bool {
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if len(f.Tags) > 0 && !item.HasTags(f.Tags) {
		return false
	}
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, item.Category) {
		return false
	}
	return true
}
