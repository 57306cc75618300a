package handler

import (
	"net/http"
	"strconv"

	"camelia/internal/catalog"
	"camelia/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler serves the catalogue and product pages.
type ProductHandler struct {
	store  *catalog.Store
	logger zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(store *catalog.Store, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		store:  store,
		logger: logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products. Query parameters: age, type, character and sort
// (controls), filter and search (entry parameters), page, and reset=true.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("serving catalogue without products")
	}

	q := r.URL.Query()
	view := catalog.NewView(h.store, catalog.ParseEntryParams(q))

	var page catalog.Page
	if q.Get("reset") == "true" {
		page = view.Reset()
	} else {
		page = view.Apply(catalog.Controls{
			Age:       q.Get("age"),
			Category:  q.Get("type"),
			Character: q.Get("character"),
			Sort:      catalog.SortMode(q.Get("sort")),
		})
	}

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 1 {
		page = view.GoToPage(n)
	}

	writeJSON(w, http.StatusOK, page)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Load(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeCatalogUnavailable, "Ocurrió un error al cargar el producto.", nil, h.logger)
		return
	}

	product, err := h.store.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err, nil, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, catalog.NewDetail(product))
}
