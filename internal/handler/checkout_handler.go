package handler

import (
	"net/http"

	"camelia/internal/checkout"
	"camelia/internal/model"
	"camelia/internal/notify"

	"github.com/rs/zerolog"
)

// SummaryResponse is the price breakdown for a selection.
type SummaryResponse struct {
	checkout.Summary
	Notices []notify.Notice `json:"notices,omitempty"`
}

// OrderResponse is the result of a completed checkout.
type OrderResponse struct {
	Order   *model.Order    `json:"order"`
	Notices []notify.Notice `json:"notices,omitempty"`
}

// CheckoutHandler handles checkout requests of the session in the request context.
type CheckoutHandler struct {
	options *checkout.Options
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(options *checkout.Options, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		options: options,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Options handles GET /api/checkout/options.
func (h *CheckoutHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.options)
}

// Summary handles POST /api/checkout/summary.
func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	var sel checkout.Selection
	if err := decodeJSON(r, &sel); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	summary, err := sess.Checkout().Select(r.Context(), sel)
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{Summary: summary, Notices: sess.Notices.Notices()})
}

// Finalize handles POST /api/checkout.
func (h *CheckoutHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	var sel checkout.Selection
	if err := decodeJSON(r, &sel); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	order, err := sess.Checkout().Finalize(r.Context(), sel)
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, OrderResponse{Order: order, Notices: sess.Notices.Notices()})
}
