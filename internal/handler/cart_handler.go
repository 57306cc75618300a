package handler

import (
	"encoding/json"
	"net/http"

	"camelia/internal/cart"
	"camelia/internal/catalog"
	"camelia/internal/checkout"
	"camelia/internal/model"
	"camelia/internal/notify"
	"camelia/internal/session"

	"github.com/rs/zerolog"
)

// CartResponse is the cart as shown in the cart drawer.
type CartResponse struct {
	Items   []model.CartLineItem `json:"items"`
	Count   int                  `json:"count"`
	Total   float64              `json:"total"`
	Notices []notify.Notice      `json:"notices,omitempty"`
}

// AddItemRequest is the body of POST /api/cart/items and /api/cart/buy-now. Quantity
// may be a number or the raw text of a quantity input.
type AddItemRequest struct {
	ProductID int             `json:"productId"`
	Quantity  json.RawMessage `json:"quantity,omitempty"`
}

// UpdateItemRequest is the body of PATCH /api/cart/items/{index}.
type UpdateItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// BuyNowResponse is the cart after a buy-now add and the checkout it leads to.
type BuyNowResponse struct {
	Cart    CartResponse     `json:"cart"`
	Summary checkout.Summary `json:"summary"`
}

// CartHandler handles cart requests of the session in the request context.
type CartHandler struct {
	store  *catalog.Store
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(store *catalog.Store, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		store:  store,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartResponse(sess))
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.add(r, sess); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, cartResponse(sess))
}

// BuyNow handles POST /api/cart/buy-now: the add of AddItem followed by the start of
// a checkout.
func (h *CartHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.add(r, sess); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	summary, err := sess.Checkout().Begin(r.Context())
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, BuyNowResponse{
		Cart:    cartResponse(sess),
		Summary: summary,
	})
}

// UpdateItem handles PATCH /api/cart/items/{index}.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	index, err := indexParam(r)
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	var req UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	if err := sess.Cart.UpdateQuantity(r.Context(), index, rawQuantity(req.Quantity)); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(sess))
}

// RemoveItem handles DELETE /api/cart/items/{index}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	index, err := indexParam(r)
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	if err := sess.Cart.Remove(r.Context(), index); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(sess))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	if err := sess.Cart.Clear(r.Context()); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(sess))
}

func (h *CartHandler) add(r *http.Request, sess *session.Session) error {
	var req AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	if req.ProductID == 0 {
		return model.NewDomainError(model.ErrCodeMissingField, "productId is required")
	}

	if err := h.store.Load(r.Context()); err != nil {
		return model.ErrCatalogUnavailable
	}

	product, ok := h.store.Get(req.ProductID)
	if !ok {
		return model.ErrProductNotFound
	}

	return sess.Cart.Add(r.Context(), product, cart.ParseQuantity(rawQuantity(req.Quantity)))
}

func cartResponse(sess *session.Session) CartResponse {
	items := sess.Cart.Items()
	if items == nil {
		items = []model.CartLineItem{}
	}

	return CartResponse{
		Items:   items,
		Count:   sess.Cart.Count(),
		Total:   sess.Cart.Total(),
		Notices: sess.Notices.Notices(),
	}
}

// rawQuantity returns the text of a quantity given as a JSON string or number. A
// missing quantity reads as "1".
func rawQuantity(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "1"
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
