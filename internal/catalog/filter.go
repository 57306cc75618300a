package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"camelia/internal/model"
)

// Catalogue headings.
const (
	HeadingOffers  = "Catálogo: Ofertas especiales"
	HeadingDefault = "Catálogo de Productos"
)

// EntryParams are the page parameters the catalogue is opened with.
type EntryParams struct {
	Offer  bool   `json:"offer"`
	Search string `json:"search,omitempty"`
}

// ParseEntryParams reads "filter=offer" and "search=<term>" from a query string. The
// search term is lower-cased.
func ParseEntryParams(q url.Values) EntryParams {
	return EntryParams{
		Offer:  q.Get("filter") == "offer",
		Search: strings.ToLower(q.Get("search")),
	}
}

// Heading returns the catalogue title. The offers title wins over the search title.
func Heading(entry EntryParams) string {
	switch {
	case entry.Offer:
		return HeadingOffers
	case entry.Search != "":
		return fmt.Sprintf("Resultados de búsqueda para %q", entry.Search)
	default:
		return HeadingDefault
	}
}

// FilterSelection is the full set of active criteria. Empty fields are inactive.
type FilterSelection struct {
	Age       string `json:"age,omitempty"`
	Category  string `json:"category,omitempty"`
	Character string `json:"character,omitempty"`
	OfferOnly bool   `json:"offerOnly,omitempty"`
	Search    string `json:"search,omitempty"`
}

// Matches reports whether p satisfies every active criterion.
func (f FilterSelection) Matches(p model.Product) bool {
	if f.Age != "" && p.Age != f.Age {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Character != "" && p.Character != f.Character {
		return false
	}
	if f.OfferOnly && !p.IsOffer {
		return false
	}
	if f.Search != "" && !matchesSearch(p, strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func matchesSearch(p model.Product, term string) bool {
	for _, field := range []string{p.Name, p.Description, p.Character, p.Category} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Filter returns the products matching sel, in their original order.
func Filter(products []model.Product, sel FilterSelection) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
