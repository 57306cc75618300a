package handler

import (
	"net/http"

	"camelia/internal/model"

	"github.com/rs/zerolog"
)

// SignInRequest is the body of POST /api/session.
type SignInRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// SessionHandler stands in for the external login flow.
type SessionHandler struct {
	logger zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		logger: logger.With().Str("handler", "session").Logger(),
	}
}

// SignIn handles POST /api/session.
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	var req SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	u := model.CurrentUser{Email: req.Email, Name: req.Name}
	if err := sess.Users.SignIn(r.Context(), u); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	current, err := sess.Users.Current(r.Context())
	if err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, current)
}

// SignOut handles DELETE /api/session.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r, h.logger)
	if !ok {
		return
	}

	if err := sess.Users.SignOut(r.Context()); err != nil {
		writeDomainError(w, r, err, sess, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
