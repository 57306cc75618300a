package catalog

import (
	"sort"

	"camelia/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode orders the catalogue.
type SortMode string

const (
	SortNameAsc   SortMode = "name-asc"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
)

// ParseSortMode maps a sort control value to a mode. Unknown values sort by name.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(s); mode {
	case SortPriceAsc, SortPriceDesc:
		return mode
	default:
		return SortNameAsc
	}
}

// Sort returns a sorted copy of products. Names are compared with Spanish collation.
func Sort(products []model.Product, mode SortMode) []model.Product {
	out := make([]model.Product, len(products))
	copy(out, products)

	switch ParseSortMode(string(mode)) {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		col := collate.New(language.Spanish)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}

	return out
}
