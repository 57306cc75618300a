package handler

import (
	"net/http"

	"camelia/internal/model"

	"github.com/rs/zerolog"
)

// ReceiptResponse carries the HTML receipt of the latest purchase.
type ReceiptResponse struct {
	Available bool   `json:"available"`
	HTML      string `json:"html"`
}

// OrderHandler serves the purchase history of the session in the request context.
type OrderHandler struct {
	logger zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

// List handles GET /api/orders: the orders of the signed-in user.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	u, err := sess.Users.Current(r.Context())
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}
	if u == nil {
		writeDomainError(w, r, model.ErrLoginRequired, sess, h.logger)
		return
	}

	orders, err := sess.History.ForUser(r.Context(), u.Email)
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Receipt handles GET /api/receipt.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	receipt, err := sess.LastReceipt(r.Context())
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, ReceiptResponse{Available: receipt != "", HTML: receipt})
}
