package catalog

import (
	"context"
	"sync"

	"camelia/internal/metrics"
	"camelia/internal/model"

	"github.com/rs/zerolog"
)

// Store holds the product list. It is loaded once and treated as immutable afterwards.
type Store struct {
	source Source
	logger zerolog.Logger

	once     sync.Once
	mu       sync.RWMutex
	products []model.Product
	byID     map[int]model.Product
	err      error
}

// NewStore creates a store backed by source. Nothing is read until Load is called.
func NewStore(source Source, logger zerolog.Logger) *Store {
	return &Store{
		source: source,
		logger: logger.With().Str("component", "catalog-store").Logger(),
	}
}

// Load reads the product list the first time it is called. A failed load is
// remembered and the store stays empty.
func (s *Store) Load(ctx context.Context) error {
	s.once.Do(func() {
		products, err := s.source.Load(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if err != nil {
			s.err = err
			metrics.CatalogLoadFailuresTotal.Inc()
			s.logger.Error().Err(err).Msg("failed to load product list")
			return
		}

		s.products = products
		s.byID = make(map[int]model.Product, len(products))
		for _, p := range products {
			s.byID[p.ID] = p
		}
		metrics.CatalogProducts.Set(float64(len(products)))
		s.logger.Info().Int("products", len(products)).Msg("catalog ready")
	})

	return s.Err()
}

// Err returns the load error, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Products returns a copy of the product list in source order.
func (s *Store) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get looks a product up by id.
func (s *Store) Get(id int) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	return p, ok
}

// staticSource serves a fixed product list.
type staticSource struct {
	products []model.Product
}

// NewStaticSource creates a source that always returns products.
func NewStaticSource(products []model.Product) Source {
	return &staticSource{products: products}
}

func (s *staticSource) Load(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
