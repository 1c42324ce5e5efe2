// Package catalog holds the storefront view pipeline: filter, sort and
// cumulative pagination over a product set that is already in memory.
//
// Every function here is pure. Inputs are never mutated; each pass returns a
// fresh slice.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"storefront/internal/domain/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the number of products revealed per "load more".
const PageSize = 8

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortName      SortKey = "name"
)

// ParseSortKey maps user input to a known key. Unknown values fall back to newest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(strings.ToLower(s))); k {
	case SortPriceLow, SortPriceHigh, SortName, SortNewest:
		return k
	default:
		return SortNewest
	}
}

// FilterState is the search text, category selection and sort key applied to the catalog.
type FilterState struct {
	Search   string  `json:"search"`
	Category string  `json:"category"`
	Sort     SortKey `json:"sort"`
}

func DefaultFilters() FilterState {
	return FilterState{Sort: SortNewest}
}

// ResetFilters returns the default filter state together with the first page.
func ResetFilters() (FilterState, int) {
	return DefaultFilters(), 1
}

// ApplyFilter keeps the products whose title or category contains the search
// text (case-insensitive) and whose category equals the selected one. Empty
// criteria match everything. Relative order is preserved.
func ApplyFilter(products []models.Product, f FilterState) []models.Product {
	search := strings.ToLower(f.Search)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Category), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort returns a stably sorted copy of products. Unknown keys sort newest first.
func Sort(products []models.Product, key SortKey) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	slices.SortStableFunc(out, comparator(key))
	return out
}

func comparator(key SortKey) func(a, b models.Product) int {
	switch key {
	case SortPriceLow:
		return func(a, b models.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		return func(a, b models.Product) int { return b.Price.Cmp(a.Price) }
	case SortName:
		// collators keep scratch buffers, one per sort
		col := collate.New(language.English)
		return func(a, b models.Product) int { return col.CompareString(a.Title, b.Title) }
	default:
		// zero created_at sorts as the oldest
		return func(a, b models.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
}

// Paginate returns the cumulative prefix holding pages 1..page, and whether
// anything remains after it. It is not a sliding window.
//
// pageSize and page must be positive; anything else is a caller bug and panics.
func Paginate(products []models.Product, pageSize, page int) ([]models.Product, bool) {
	if pageSize < 1 {
		panic(fmt.Sprintf("catalog: page size must be positive, got %d", pageSize))
	}
	if page < 1 {
		panic(fmt.Sprintf("catalog: page must be >= 1, got %d", page))
	}

	n := len(products)
	limit := n
	if page <= n/pageSize {
		limit = pageSize * page
	}
	return slices.Clone(products[:limit]), limit < n
}
