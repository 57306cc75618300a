// Package checkout turns a cart into an order: it prices the shopper's shipping and
// packaging choices, simulates the payment and records the result.
package checkout

import (
	"context"
	"fmt"
	"time"

	"camelia/internal/events"
	"camelia/internal/metrics"
	"camelia/internal/model"
	"camelia/internal/notify"
	"camelia/internal/storage"

	"github.com/rs/zerolog"
)

// State is the position of a checkout in its linear flow.
type State int

const (
	StateNew State = iota
	StateLoginRequired
	StateEmptyCart
	StateReady
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateLoginRequired:
		return "login-required"
	case StateEmptyCart:
		return "empty-cart"
	case StateReady:
		return "ready"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CartSource is the cart being checked out.
type CartSource interface {
	Items() []model.CartLineItem
	Total() float64
	IsEmpty() bool
	Clear(ctx context.Context) error
}

// UserSource reports the signed-in shopper, or nil when there is none.
type UserSource interface {
	Current(ctx context.Context) (*model.CurrentUser, error)
}

// OrderRecorder stores completed orders.
type OrderRecorder interface {
	Append(ctx context.Context, order model.Order) error
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRandom sets the source used for payment simulation and order ids.
func WithRandom(r Random) Option {
	return func(o *Orchestrator) {
		o.random = r
	}
}

// WithClock sets the clock used to date orders.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithPublisher sets the publisher notified of placed orders.
func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) {
		o.publisher = p
	}
}

// Orchestrator runs one checkout. States only move forward: a blocked entry stays
// blocked and a completed checkout cannot be finalized again.
type Orchestrator struct {
	cart      CartSource
	users     UserSource
	history   OrderRecorder
	storage   storage.Storage
	notifier  notify.Notifier
	options   *Options
	random    Random
	now       func() time.Time
	publisher events.Publisher
	logger    zerolog.Logger

	state    State
	user     model.CurrentUser
	subtotal float64
	order    *model.Order
}

// New creates an orchestrator in StateNew. The receipt of a completed checkout is
// written to st.
func New(cart CartSource, users UserSource, history OrderRecorder, st storage.Storage, notifier notify.Notifier, options *Options, logger zerolog.Logger, opts ...Option) *Orchestrator {
	if notifier == nil {
		notifier = notify.Discard
	}
	if options == nil {
		options = DefaultOptions()
	}

	o := &Orchestrator{
		cart:      cart,
		users:     users,
		history:   history,
		storage:   st,
		notifier:  notifier,
		options:   options,
		random:    DefaultRandom,
		now:       time.Now,
		publisher: events.NewNopPublisher(),
		logger:    logger.With().Str("component", "checkout").Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Order returns the placed order once the checkout is completed.
func (o *Orchestrator) Order() *model.Order {
	return o.order
}

// Options returns the option catalogue offered by this checkout.
func (o *Orchestrator) Options() *Options {
	return o.options
}

// Begin runs the entry guard and returns the initial summary with the standard
// shipping rate. The cart subtotal is read once here.
func (o *Orchestrator) Begin(ctx context.Context) (Summary, error) {
	if err := o.guard(); err != nil {
		return Summary{}, err
	}
	if o.state == StateReady {
		return ComputeSummary(o.subtotal, Selection{}, o.options)
	}

	u, err := o.users.Current(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to check current user: %w", err)
	}
	if u == nil {
		o.state = StateLoginRequired
		metrics.CheckoutRejectedTotal.WithLabelValues("login_required").Inc()
		o.notifier.Notify(ctx, notify.Notice{
			Kind:    notify.KindLoginRequired,
			Message: "Debes iniciar sesión para finalizar tu compra.",
		})
		return Summary{}, model.ErrLoginRequired
	}

	if o.cart.IsEmpty() {
		o.state = StateEmptyCart
		metrics.CheckoutRejectedTotal.WithLabelValues("empty_cart").Inc()
		o.notifier.Notify(ctx, notify.Notice{
			Kind:    notify.KindEmptyCart,
			Message: "Tu carrito está vacío. ¡Vuelve al catálogo para comprar!",
		})
		return Summary{}, model.ErrEmptyCart
	}

	o.user = *u
	o.subtotal = o.cart.Total()
	o.state = StateReady

	return ComputeSummary(o.subtotal, Selection{}, o.options)
}

// Select prices sel against the subtotal read by Begin.
func (o *Orchestrator) Select(ctx context.Context, sel Selection) (Summary, error) {
	if err := o.ready(ctx); err != nil {
		return Summary{}, err
	}
	return ComputeSummary(o.subtotal, sel, o.options)
}

// Finalize validates sel, simulates the payment and on success records the order,
// stores its receipt and clears the cart. Any failure before the order is recorded
// leaves cart and history untouched.
func (o *Orchestrator) Finalize(ctx context.Context, sel Selection) (*model.Order, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}

	if sel.Shipping == "" {
		metrics.CheckoutRejectedTotal.WithLabelValues("missing_shipping").Inc()
		o.notifier.Notify(ctx, notify.Notice{Kind: notify.KindMissingShipping, Message: model.ErrMissingShipping.Message})
		return nil, model.ErrMissingShipping
	}
	if sel.Payment == "" {
		metrics.CheckoutRejectedTotal.WithLabelValues("missing_payment").Inc()
		o.notifier.Notify(ctx, notify.Notice{Kind: notify.KindMissingPayment, Message: model.ErrMissingPayment.Message})
		return nil, model.ErrMissingPayment
	}

	summary, err := ComputeSummary(o.subtotal, sel, o.options)
	if err != nil {
		return nil, err
	}
	payment, ok := o.options.PaymentByID(sel.Payment)
	if !ok {
		return nil, model.ErrUnknownPayment
	}

	if err := SimulatePayment(payment.ID, o.random); err != nil {
		metrics.PaymentFailuresTotal.WithLabelValues(payment.ID).Inc()
		o.logger.Warn().Str("payment_method", payment.ID).Msg("simulated payment failed")
		o.notifier.Notify(ctx, notify.Notice{Kind: notify.KindPaymentFailed, Message: model.ErrPaymentFailed.Message})
		return nil, err
	}

	order := model.Order{
		OrderID:           NewOrderID(o.random),
		UserEmail:         o.user.Email,
		Date:              o.now(),
		Items:             o.cart.Items(),
		Subtotal:          summary.Subtotal,
		ShippingMethod:    summary.ShippingMethod,
		ShippingCost:      summary.ShippingCost,
		PackagingCost:     summary.PackagingCost,
		PaymentMethod:     payment.ID,
		PaymentMethodName: payment.Label,
		Total:             summary.Total,
	}

	if err := o.history.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}

	receipt, err := RenderReceipt(order)
	if err != nil {
		o.logger.Error().Err(err).Int("order_id", order.OrderID).Msg("failed to render receipt")
	} else if err := o.storage.Set(ctx, storage.KeyLastReceipt, []byte(receipt)); err != nil {
		o.logger.Error().Err(err).Int("order_id", order.OrderID).Msg("failed to store receipt")
	}

	if err := o.cart.Clear(ctx); err != nil {
		o.logger.Error().Err(err).Int("order_id", order.OrderID).Msg("failed to clear cart after purchase")
	}

	if err := o.publisher.PublishOrderPlaced(ctx, order); err != nil {
		o.logger.Warn().Err(err).Int("order_id", order.OrderID).Msg("order placed event not published")
	}

	o.state = StateCompleted
	o.order = &order

	metrics.CheckoutsCompletedTotal.Inc()
	metrics.OrderRevenue.Add(order.Total)
	o.logger.Info().
		Int("order_id", order.OrderID).
		Str("user_email", order.UserEmail).
		Float64("total", order.Total).
		Msg("checkout completed")
	o.notifier.Notify(ctx, notify.Notice{
		Kind:    notify.KindPurchaseSuccess,
		Message: fmt.Sprintf("¡Compra #%d exitosa! Puedes ver el comprobante en tu Historial.", order.OrderID),
	})

	return &order, nil
}

// ready begins the checkout if needed and fails unless it is in StateReady.
func (o *Orchestrator) ready(ctx context.Context) error {
	if o.state == StateNew {
		if _, err := o.Begin(ctx); err != nil {
			return err
		}
	}
	return o.guard()
}

func (o *Orchestrator) guard() error {
	switch o.state {
	case StateLoginRequired:
		return model.ErrLoginRequired
	case StateEmptyCart:
		return model.ErrEmptyCart
	case StateCompleted:
		return model.ErrCheckoutClosed
	default:
		return nil
	}
}
