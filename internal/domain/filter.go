package domain

import (
	"slices"
	"strings"
)

// CategoryAll selects every category.
const CategoryAll = "All"

type SortMode string

const (
	SortFeatured  SortMode = "featured"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// Filter is a session's display state. It is never persisted.
type Filter struct {
	Category string   `json:"category"`
	Search   string   `json:"search"`
	Sort     SortMode `json:"sort"`
}

// DefaultFilter shows everything in catalog order.
func DefaultFilter() Filter {
	return Filter{Category: CategoryAll, Sort: SortFeatured}
}

// Normalize fills blanks with defaults and trims and lower-cases the search.
func (f Filter) Normalize() Filter {
	if f.Category == "" {
		f.Category = CategoryAll
	}
	if f.Sort == "" {
		f.Sort = SortFeatured
	}
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	return f
}

// Project derives the displayed list from items. Category match is exact
// and case-sensitive, search is a case-insensitive substring test over name,
// description and category, and any sort other than the two price modes
// keeps the filtered order. items is not modified.
func Project(items []Item, f Filter) []Item {
	f = f.Normalize()

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Category != CategoryAll && it.Category != f.Category {
			continue
		}
		if f.Search != "" && !matchesSearch(it, f.Search) {
			continue
		}
		out = append(out, it)
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Item) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Item) int { return b.Price.Cmp(a.Price) })
	}
	return out
}

func matchesSearch(it Item, q string) bool {
	return strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(it.Description), q) ||
		strings.Contains(strings.ToLower(it.Category), q)
}

// Categories lists CategoryAll followed by each distinct category in order
// of first appearance.
func Categories(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{CategoryAll}
	for _, it := range items {
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}
