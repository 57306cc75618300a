// Package history keeps the list of completed orders of a shopper session.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"camelia/internal/model"
	"camelia/internal/storage"

	"github.com/rs/zerolog"
)

// Store reads and appends orders in the purchase history slot.
type Store struct {
	storage storage.Storage
	logger  zerolog.Logger
}

// NewStore creates a history store over st.
func NewStore(st storage.Storage, logger zerolog.Logger) *Store {
	return &Store{
		storage: st,
		logger:  logger.With().Str("component", "history").Logger(),
	}
}

// List returns every recorded order, oldest first. A missing or corrupt slot is an
// empty history.
func (s *Store) List(ctx context.Context) ([]model.Order, error) {
	data, err := s.storage.Get(ctx, storage.KeyHistory)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []model.Order{}, nil
		}
		return nil, fmt.Errorf("failed to read purchase history: %w", err)
	}

	var orders []model.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt purchase history")
		return []model.Order{}, nil
	}
	if orders == nil {
		orders = []model.Order{}
	}

	return orders, nil
}

// Append records order at the end of the history.
func (s *Store) Append(ctx context.Context, order model.Order) error {
	orders, err := s.List(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(append(orders, order))
	if err != nil {
		return fmt.Errorf("failed to encode purchase history: %w", err)
	}

	if err := s.storage.Set(ctx, storage.KeyHistory, data); err != nil {
		s.logger.Error().Err(err).Int("order_id", order.OrderID).Msg("failed to save order")
		return fmt.Errorf("failed to save order %d: %w", order.OrderID, err)
	}

	s.logger.Info().
		Int("order_id", order.OrderID).
		Str("user_email", order.UserEmail).
		Msg("order saved to purchase history")

	return nil
}

// ForUser returns the orders placed by email.
func (s *Store) ForUser(ctx context.Context, email string) ([]model.Order, error) {
	orders, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.UserEmail == email {
			out = append(out, o)
		}
	}
	return out, nil
}
