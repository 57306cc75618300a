package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"camelia/internal/middleware"
	"camelia/internal/model"
	"camelia/internal/notify"
	"camelia/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ErrorResponse is the error body: the error code and message plus any notices raised
// before the failure.
type ErrorResponse struct {
	model.ErrorResponse
	Notices []notify.Notice `json:"notices,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, notices []notify.Notice, logger zerolog.Logger) {
	logger.Error().
		Str("error", code).
		Str("message", message).
		Int("status", status).
		Msg("handler error")

	writeJSON(w, status, ErrorResponse{
		ErrorResponse: model.ErrorResponse{
			Error:         code,
			Message:       message,
			CorrelationID: middleware.GetRequestID(r.Context()),
		},
		Notices: notices,
	})
}

// writeDomainError maps err to a status code. Errors that are not domain errors are
// logged and reported as internal errors.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, sess *session.Session, logger zerolog.Logger) {
	var notices []notify.Notice
	if sess != nil {
		notices = sess.Notices.Notices()
	}

	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", notices, logger)
		return
	}

	writeError(w, r, statusFor(de.Code), de.Code, de.Message, notices, logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField,
		model.ErrCodeMissingSession,
		model.ErrCodeMissingShipping,
		model.ErrCodeMissingPayment,
		model.ErrCodeUnknownShipping,
		model.ErrCodeUnknownPayment:
		return http.StatusBadRequest
	case model.ErrCodeLoginRequired:
		return http.StatusUnauthorized
	case model.ErrCodePaymentFailed:
		return http.StatusPaymentRequired
	case model.ErrCodeProductNotFound:
		return http.StatusNotFound
	case model.ErrCodeOutOfStock, model.ErrCodeEmptyCart, model.ErrCodeCheckoutClosed:
		return http.StatusConflict
	case model.ErrCodeCatalogUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

// requestSession returns the session opened by middleware.RequireSession.
func requestSession(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*session.Session, bool) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		writeDomainError(w, r, session.ErrMissingSession, nil, logger)
		return nil, false
	}
	return sess, true
}

// indexParam reads the {index} URL parameter.
func indexParam(r *http.Request) (int, error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, model.NewDomainError(model.ErrCodeMissingField, "index must be an integer")
	}
	return index, nil
}
