package catalog

import (
	"context"
	"fmt"

	"camelia/internal/model"
)

// NoResultsMessage is shown when the filtered list is empty.
const NoResultsMessage = "No encontramos productos con esos filtros."

// Controls are the dropdown values of the catalogue page.
type Controls struct {
	Age       string   `json:"age,omitempty"`
	Category  string   `json:"category,omitempty"`
	Character string   `json:"character,omitempty"`
	Sort      SortMode `json:"sort,omitempty"`
}

// Card is a product tile on a catalogue page.
type Card struct {
	Product    model.Product `json:"product"`
	DetailLink string        `json:"detailLink"`
}

// Page is one rendered catalogue page.
type Page struct {
	Heading    string `json:"heading"`
	Number     int    `json:"page"`
	TotalPages int    `json:"totalPages"`
	Pages      []int  `json:"pages"`
	Total      int    `json:"total"`
	Cards      []Card `json:"cards"`
	Empty      bool   `json:"empty"`
	Message    string `json:"message,omitempty"`
}

// CartAdder receives products added from the catalogue.
type CartAdder interface {
	Add(ctx context.Context, p model.Product, qty int) error
}

// DetailLink returns the detail route of a product.
func DetailLink(id int) string {
	return fmt.Sprintf("/api/products/%d", id)
}

// View is the state of one catalogue page: entry parameters, controls, the current
// filtered list and the page shown.
type View struct {
	store    *Store
	entry    EntryParams
	controls Controls
	list     []model.Product
	page     int
}

// NewView creates a view over store opened with entry. The list starts unfiltered.
func NewView(store *Store, entry EntryParams) *View {
	return &View{
		store:    store,
		entry:    entry,
		controls: Controls{Sort: SortNameAsc},
		page:     1,
	}
}

// Selection returns the combined filter criteria of the controls and the entry
// parameters.
func (v *View) Selection() FilterSelection {
	return FilterSelection{
		Age:       v.controls.Age,
		Category:  v.controls.Category,
		Character: v.controls.Character,
		OfferOnly: v.entry.Offer,
		Search:    v.entry.Search,
	}
}

// Apply sets the controls and re-filters.
func (v *View) Apply(c Controls) Page {
	c.Sort = ParseSortMode(string(c.Sort))
	v.controls = c
	return v.ApplyFilters()
}

// ApplyFilters recomputes the list from the full catalogue and shows page 1.
func (v *View) ApplyFilters() Page {
	v.list = Sort(Filter(v.store.Products(), v.Selection()), v.controls.Sort)
	return v.render(1)
}

// GoToPage shows page n of the current list without re-filtering.
func (v *View) GoToPage(n int) Page {
	return v.render(n)
}

// Reset clears the controls and shows the whole catalogue sorted by name. Entry
// parameters are ignored for the list but still title the page.
func (v *View) Reset() Page {
	v.controls = Controls{Sort: SortNameAsc}
	v.list = Sort(v.store.Products(), SortNameAsc)
	return v.render(1)
}

// AddToCart adds one unit of the product to c. The view keeps its page.
func (v *View) AddToCart(ctx context.Context, c CartAdder, productID int) error {
	p, ok := v.store.Get(productID)
	if !ok {
		return model.ErrProductNotFound
	}
	return c.Add(ctx, p, 1)
}

func (v *View) render(n int) Page {
	if n < 1 {
		n = 1
	}
	v.page = n

	page := Page{
		Heading:    Heading(v.entry),
		Number:     n,
		TotalPages: TotalPages(len(v.list)),
		Pages:      PageNumbers(len(v.list)),
		Total:      len(v.list),
		Cards:      []Card{},
	}

	if v.store.Err() != nil {
		page.Empty = true
		page.Message = model.ErrCatalogUnavailable.Message
		return page
	}

	products := Paginate(v.list, n)
	if len(products) == 0 {
		page.Empty = true
		page.Message = NoResultsMessage
		return page
	}

	for _, p := range products {
		page.Cards = append(page.Cards, Card{Product: p, DetailLink: DetailLink(p.ID)})
	}
	return page
}
