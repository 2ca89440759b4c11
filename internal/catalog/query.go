package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/orchidbooks/storefront/internal/models"
)

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNameAZ    SortKey = "name-az"
	SortNameZA    SortKey = "name-za"
)

// ParseSortKey falls back to newest for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortRating, SortNameAZ, SortNameZA:
		return SortKey(s)
	}
	return SortNewest
}

// Filter is the structured half of a catalog query. The zero value is
// the identity filter: a zero PriceMax means no upper bound, and a zero
// PriceMin is inert because prices are non-negative. Subcategory
// selection is not coupled to category selection.
type Filter struct {
	Categories    []models.Category
	Subcategories []string
	PriceMin      decimal.Decimal
	PriceMax      decimal.Decimal
	Rating        float64
	InStock       bool
	Featured      bool
}

// Query filters and orders a catalog snapshot. It is pure: inputs are
// never mutated and the result is a fresh slice. Ties keep catalog
// order (stable sort).
func Query(products []models.Product, search string, f Filter, key SortKey) []models.Product {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Product, 0, len(products))
	for i := range products {
		if matches(&products[i], q, f) {
			out = append(out, products[i])
		}
	}
	sortProducts(out, key)
	return out
}

func matches(p *models.Product, q string, f Filter) bool {
	if q != "" && !matchesSearch(p, q) {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, p.Category) {
		return false
	}
	if len(f.Subcategories) > 0 && !containsFold(f.Subcategories, p.Subcategory) {
		return false
	}
	if p.Price.Cmp(f.PriceMin) < 0 {
		return false
	}
	if !f.PriceMax.IsZero() && p.Price.Cmp(f.PriceMax) > 0 {
		return false
	}
	if f.Rating > 0 && p.Rating < f.Rating {
		return false
	}
	if f.InStock && p.Stock == 0 {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	return true
}

// matchesSearch is a case-insensitive substring match over title,
// description, author and subcategory. A missing author simply never
// matches.
func matchesSearch(p *models.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		(p.Author != "" && strings.Contains(strings.ToLower(p.Author), q)) ||
		strings.Contains(strings.ToLower(p.Subcategory), q)
}

func containsCategory(set []models.Category, c models.Category) bool {
	for _, v := range set {
		if v == c {
			return true
		}
	}
	return false
}

func containsFold(set []string, s string) bool {
	for _, v := range set {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func sortProducts(items []models.Product, key SortKey) {
	switch key {
	case SortNewest:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	case SortOldest:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	case SortPriceLow:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.Cmp(items[j].Price) < 0 })
	case SortPriceHigh:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.Cmp(items[j].Price) > 0 })
	case SortRating:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Rating > items[j].Rating })
	case SortNameAZ:
		col := collate.New(language.English, collate.Loose)
		sort.SliceStable(items, func(i, j int) bool { return col.CompareString(items[i].Title, items[j].Title) < 0 })
	case SortNameZA:
		col := collate.New(language.English, collate.Loose)
		sort.SliceStable(items, func(i, j int) bool { return col.CompareString(items[i].Title, items[j].Title) > 0 })
	}
}
