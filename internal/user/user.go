// Package user reads and writes the current-user slot. Authentication itself happens
// elsewhere; this package only records its outcome.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"camelia/internal/model"
	"camelia/internal/storage"

	"github.com/rs/zerolog"
)

// Store gives access to the currentUser slot of one session.
type Store struct {
	storage storage.Storage
	logger  zerolog.Logger
}

// NewStore creates a user store on top of st.
func NewStore(st storage.Storage, logger zerolog.Logger) *Store {
	return &Store{
		storage: st,
		logger:  logger.With().Str("component", "user").Logger(),
	}
}

// Current returns the signed-in user, or nil when nobody is signed in. A corrupt slot
// counts as signed out.
func (s *Store) Current(ctx context.Context) (*model.CurrentUser, error) {
	data, err := s.storage.Get(ctx, storage.KeyCurrentUser)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current user: %w", err)
	}

	var u model.CurrentUser
	if err := json.Unmarshal(data, &u); err != nil {
		s.logger.Warn().Err(err).Msg("current user slot is corrupt, treating as signed out")
		return nil, nil
	}
	if u.Email == "" {
		return nil, nil
	}

	return &u, nil
}

// SignIn records u as the current user.
func (s *Store) SignIn(ctx context.Context, u model.CurrentUser) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "email is required")
	}

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode current user: %w", err)
	}

	if err := s.storage.Set(ctx, storage.KeyCurrentUser, data); err != nil {
		return fmt.Errorf("failed to save current user: %w", err)
	}

	s.logger.Info().Str("email", u.Email).Msg("user signed in")
	return nil
}

// SignOut clears the current user.
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.storage.Remove(ctx, storage.KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}
