package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
)

var ErrItemNotFound = errors.New("menu item not found")

// Searcher answers text+filter queries against the menu.
type Searcher interface {
	Search(ctx context.Context, query string, filters model.Filters) ([]model.MenuItem, error)
}

// Store holds the menu in memory in source order. It is read-only after construction.
type Store struct {
	items []model.MenuItem
	byID  map[string]int
}

// rawItem mirrors the file format; a missing is_available means available.
type rawItem struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Category    string        `json:"category" yaml:"category"`
	Price       float64       `json:"price" yaml:"price"`
	Tags        []string      `json:"tags" yaml:"tags"`
	Addons      []model.Addon `json:"addons" yaml:"addons"`
	Variants    []string      `json:"variants" yaml:"variants"`
	IsAvailable *bool         `json:"is_available" yaml:"is_available"`
}

type menuFile struct {
	Items []rawItem `json:"items" yaml:"items"`
}

// LoadFile reads a catalog from a .json, .yaml or .yml file.
func LoadFile(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var f menuFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &f)
	default:
		err = json.Unmarshal(b, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	items := make([]model.MenuItem, 0, len(f.Items))
	for _, r := range f.Items {
		available := true
		if r.IsAvailable != nil {
			available = *r.IsAvailable
		}
		items = append(items, model.MenuItem{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Price:       r.Price,
			Tags:        nonNil(r.Tags),
			Addons:      nonNilAddons(r.Addons),
			Variants:    nonNil(r.Variants),
			IsAvailable: available,
		})
	}
	return NewStore(items)
}

// NewStore validates items and keeps them in the given order.
func NewStore(items []model.MenuItem) (*Store, error) {
	s := &Store{
		items: make([]model.MenuItem, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	copy(s.items, items)
	for i, it := range s.items {
		if strings.TrimSpace(it.ID) == "" {
			return nil, fmt.Errorf("catalog item %d: empty id", i)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("catalog item %s: negative price", it.ID)
		}
		if _, dup := s.byID[it.ID]; dup {
			return nil, fmt.Errorf("catalog item %s: duplicate id", it.ID)
		}
		s.byID[it.ID] = i
	}
	return s, nil
}

// Search returns available items whose name, category or tags contain query
// (case-insensitive) and which satisfy every filter, in catalog order, capped
// at model.MaxSearchResults. An empty query matches every item.
func (s *Store) Search(_ context.Context, query string, filters model.Filters) ([]model.MenuItem, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.MenuItem, 0)
	for _, it := range s.items {
		if len(out) == model.MaxSearchResults {
			break
		}
		if !it.IsAvailable || !textMatch(it, q) || !filters.Match(it) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Get looks up an item by exact id.
func (s *Store) Get(id string) (model.MenuItem, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.MenuItem{}, false
	}
	return s.items[i], true
}

// Len returns the number of loaded items, available or not.
func (s *Store) Len() int {
	return len(s.items)
}

func textMatch(it model.MenuItem, q string) bool {
	if q == "" {
		return true
	}
	hay := strings.ToLower(it.Name + " " + it.Category + " " + strings.Join(it.Tags, " "))
	return strings.Contains(hay, q)
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nonNilAddons(v []model.Addon) []model.Addon {
	if v == nil {
		return []model.Addon{}
	}
	return v
}

var _ Searcher = (*Store)(nil)
