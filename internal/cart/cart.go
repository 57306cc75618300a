// Package cart implements the shopping cart of one shopper session. The cart is an
// insertion-ordered list of line items, one per product, persisted as a JSON blob in
// the session's storage after every mutation.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"camelia/internal/metrics"
	"camelia/internal/model"
	"camelia/internal/notify"
	"camelia/internal/storage"

	"github.com/rs/zerolog"
)

// UserSource reports the signed-in shopper, or nil when there is none.
type UserSource interface {
	Current(ctx context.Context) (*model.CurrentUser, error)
}

// Option configures a Cart.
type Option func(*Cart)

// WithCountListener registers fn to receive the item count (sum of quantities) after
// hydration and after every mutation. It drives the cart badge.
func WithCountListener(fn func(count int)) Option {
	return func(c *Cart) {
		c.onCount = fn
	}
}

// Cart is the shopper's cart. It is not safe for concurrent use; each request works
// on its own hydrated instance.
type Cart struct {
	storage  storage.Storage
	users    UserSource
	notifier notify.Notifier
	logger   zerolog.Logger
	onCount  func(int)
	items    []model.CartLineItem
}

// New creates a cart hydrated from st. Hydration never fails: an absent, unreadable or
// corrupt slot yields an empty cart.
func New(ctx context.Context, st storage.Storage, users UserSource, notifier notify.Notifier, logger zerolog.Logger, opts ...Option) *Cart {
	if notifier == nil {
		notifier = notify.Discard
	}

	c := &Cart{
		storage:  st,
		users:    users,
		notifier: notifier,
		logger:   logger.With().Str("component", "cart").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.items = c.load(ctx)
	c.updateCount()

	return c
}

func (c *Cart) load(ctx context.Context) []model.CartLineItem {
	data, err := c.storage.Get(ctx, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read cart, starting empty")
		return nil
	}

	var items []model.CartLineItem
	if err := json.Unmarshal(data, &items); err != nil {
		c.logger.Warn().Err(err).Msg("cart slot is corrupt, starting empty")
		return nil
	}

	return items
}

// Add puts qty units of p in the cart, merging with an existing line for the same
// product. It fails without a signed-in user or when p is out of stock; both failures
// are notified and leave the cart untouched. A qty below one counts as one.
func (c *Cart) Add(ctx context.Context, p model.Product, qty int) error {
	if qty < 1 {
		qty = 1
	}

	u, err := c.users.Current(ctx)
	if err != nil {
		return fmt.Errorf("failed to check current user: %w", err)
	}
	if u == nil {
		metrics.CartAddRejectedTotal.WithLabelValues("login_required").Inc()
		c.notifier.Notify(ctx, notify.Notice{
			Kind:    notify.KindLoginRequired,
			Message: "Debes iniciar sesión para agregar productos al carrito.",
		})
		return model.ErrLoginRequired
	}

	if !p.Stock {
		metrics.CartAddRejectedTotal.WithLabelValues("out_of_stock").Inc()
		c.notifier.Notify(ctx, notify.Notice{
			Kind:    notify.KindOutOfStock,
			Message: fmt.Sprintf("Lo sentimos, el producto %q está agotado.", p.Name),
		})
		return model.ErrOutOfStock
	}

	previous := c.snapshot()

	if i := c.indexOf(p.ID); i >= 0 {
		c.items[i].Quantity += qty
	} else {
		c.items = append(c.items, model.CartLineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Img:       p.Img,
			Quantity:  qty,
			Age:       p.Age,
			Category:  p.Category,
		})
	}

	if err := c.save(ctx); err != nil {
		c.items = previous
		return err
	}
	c.updateCount()

	metrics.CartItemsAddedTotal.Add(float64(qty))
	c.logger.Debug().Int("product_id", p.ID).Int("quantity", qty).Msg("product added to cart")
	c.notifier.Notify(ctx, notify.Notice{
		Kind:    notify.KindAddedToCart,
		Message: "Producto agregado al carrito",
	})

	return nil
}

// Remove deletes the line at index. An index outside the cart is ignored.
func (c *Cart) Remove(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.items) {
		return nil
	}

	previous := c.snapshot()
	c.items = append(c.items[:index:index], c.items[index+1:]...)

	if err := c.save(ctx); err != nil {
		c.items = previous
		return err
	}
	c.updateCount()

	return nil
}

// UpdateQuantity sets the quantity of the line at index from user input, see
// ParseQuantity. An index outside the cart is ignored.
func (c *Cart) UpdateQuantity(ctx context.Context, index int, raw string) error {
	if index < 0 || index >= len(c.items) {
		return nil
	}

	old := c.items[index].Quantity
	c.items[index].Quantity = ParseQuantity(raw)

	if err := c.save(ctx); err != nil {
		c.items[index].Quantity = old
		return err
	}
	c.updateCount()

	return nil
}

// Clear empties the cart and removes its slot entirely.
func (c *Cart) Clear(ctx context.Context) error {
	if err := c.storage.Remove(ctx, storage.KeyCart); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	c.items = nil
	c.updateCount()

	return nil
}

// Total returns the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, it := range c.items {
		total += it.Subtotal()
	}
	return total
}

// Count returns the sum of all quantities.
func (c *Cart) Count() int {
	count := 0
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []model.CartLineItem {
	return c.snapshot()
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) indexOf(productID int) int {
	for i, it := range c.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) snapshot() []model.CartLineItem {
	if c.items == nil {
		return nil
	}
	out := make([]model.CartLineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) save(ctx context.Context) error {
	items := c.items
	if items == nil {
		items = []model.CartLineItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := c.storage.Set(ctx, storage.KeyCart, data); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist cart")
		return fmt.Errorf("failed to persist cart: %w", err)
	}

	return nil
}

func (c *Cart) updateCount() {
	if c.onCount != nil {
		c.onCount(c.Count())
	}
}

// ParseQuantity reads a quantity the way the quantity inputs do: the leading integer
// of raw, with anything unparsable or below one becoming one.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)

	i := 0
	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}

	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 1
	}

	n, err := strconv.Atoi(s[start:i])
	if err != nil || negative || n < 1 {
		return 1
	}

	return n
}
