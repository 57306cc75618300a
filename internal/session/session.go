// Package session assembles the per-shopper components (user, cart, history and
// checkout) over a storage namespace identified by a session id.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"camelia/internal/cart"
	"camelia/internal/catalog"
	"camelia/internal/checkout"
	"camelia/internal/events"
	"camelia/internal/history"
	"camelia/internal/model"
	"camelia/internal/notify"
	"camelia/internal/storage"
	"camelia/internal/user"

	"github.com/rs/zerolog"
)

// ErrMissingSession is returned when no session id is supplied.
var ErrMissingSession = model.NewDomainError(model.ErrCodeMissingSession, "X-Session-ID header is required")

// Option configures a Manager.
type Option func(*Manager)

// WithRandom sets the random source handed to every checkout.
func WithRandom(r checkout.Random) Option {
	return func(m *Manager) {
		m.random = r
	}
}

// WithClock sets the clock handed to every checkout.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithPublisher sets the order event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(m *Manager) {
		m.publisher = p
	}
}

// Manager opens shopper sessions over shared storage and catalog.
type Manager struct {
	storage   storage.Storage
	catalog   *catalog.Store
	options   *checkout.Options
	publisher events.Publisher
	random    checkout.Random
	now       func() time.Time
	logger    zerolog.Logger
}

// NewManager creates a session manager.
func NewManager(st storage.Storage, store *catalog.Store, options *checkout.Options, logger zerolog.Logger, opts ...Option) *Manager {
	if options == nil {
		options = checkout.DefaultOptions()
	}

	m := &Manager{
		storage:   st,
		catalog:   store,
		options:   options,
		publisher: events.NewNopPublisher(),
		random:    checkout.DefaultRandom,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Catalog returns the shared catalog store.
func (m *Manager) Catalog() *catalog.Store {
	return m.catalog
}

// Options returns the checkout option catalogue.
func (m *Manager) Options() *checkout.Options {
	return m.options
}

// Session is one shopper's view of the storefront for the duration of a request.
type Session struct {
	ID      string
	Notices *notify.Recorder
	Users   *user.Store
	Cart    *cart.Cart
	History *history.Store

	storage storage.Storage
	manager *Manager
	logger  zerolog.Logger
}

// Open hydrates the session id. Notices raised by its components are collected in
// Session.Notices.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingSession
	}

	logger := m.logger.With().Str("session_id", id).Logger()
	st := storage.Namespace(m.storage, id)
	recorder := notify.NewRecorder(logger)
	users := user.NewStore(st, logger)

	return &Session{
		ID:      id,
		Notices: recorder,
		Users:   users,
		Cart:    cart.New(ctx, st, users, recorder, logger),
		History: history.NewStore(st, logger),
		storage: st,
		manager: m,
		logger:  logger,
	}, nil
}

// Checkout starts a checkout of the session's cart.
func (s *Session) Checkout() *checkout.Orchestrator {
	m := s.manager
	return checkout.New(s.Cart, s.Users, s.History, s.storage, s.Notices, m.options, s.logger,
		checkout.WithRandom(m.random),
		checkout.WithClock(m.now),
		checkout.WithPublisher(m.publisher),
	)
}

// CatalogView opens the catalogue with entry parameters.
func (s *Session) CatalogView(entry catalog.EntryParams) *catalog.View {
	return catalog.NewView(s.manager.catalog, entry)
}

// LastReceipt returns the receipt of the latest purchase, or "" when there is none.
func (s *Session) LastReceipt(ctx context.Context) (string, error) {
	data, err := s.storage.Get(ctx, storage.KeyLastReceipt)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read last receipt: %w", err)
	}
	return string(data), nil
}
