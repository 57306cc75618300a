// Package notify carries the blocking, modal-style messages the storefront shows to
// the shopper (login required, out of stock, purchase success and so on).
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Kind identifies a notification.
type Kind string

const (
	KindLoginRequired   Kind = "login-required"
	KindOutOfStock      Kind = "out-of-stock"
	KindAddedToCart     Kind = "add-confirmation"
	KindEmptyCart       Kind = "empty-cart"
	KindMissingShipping Kind = "missing-shipping"
	KindMissingPayment  Kind = "missing-payment"
	KindPaymentFailed   Kind = "payment-failed"
	KindPurchaseSuccess Kind = "purchase-success"
)

// Notice is a single message for the shopper.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Notifier delivers notices to the shopper.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Recorder keeps notices in order so a request handler can return them with its response.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	logger  zerolog.Logger
}

// NewRecorder creates an empty recorder. Every notice is also logged at debug level.
func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{
		logger: logger.With().Str("component", "notifier").Logger(),
	}
}

// Notify records n.
func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()

	r.logger.Debug().Str("kind", string(n.Kind)).Str("message", n.Message).Msg("notice raised")
}

// Notices returns the recorded notices in order.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Kinds returns the kinds of the recorded notices in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Kind, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Kind
	}
	return out
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(context.Context, Notice) {}
