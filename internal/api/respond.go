package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"marehpilates/internal/domain"
)

type messageBody struct {
	Message string `json:"message"`
}

type idBody struct {
	ID int64 `json:"id"`
}

type errorBody struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorBody{Error: message})
}

// writeList renders a nil slice as [].
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

// writeDomainError maps service errors onto status codes. Unknown errors are
// logged and answered with a generic 500.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		reference  *domain.ReferenceError
		duplicate  *domain.DuplicateError
		persist    *domain.PersistenceError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: domain.ErrNotFound.Error()})
	case errors.As(err, &persist):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "No se pudo crear la reserva", Detail: persist.Err.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validation.Error(), Field: validation.Field})
	case errors.As(err, &reference):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: reference.Error(), Field: reference.Field})
	case errors.As(err, &duplicate):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: duplicate.Error(), Field: duplicate.Field})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInUse):
		writeError(w, http.StatusConflict, err.Error())
	case isClientError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, http.StatusInternalServerError, "error interno del servidor")
	}
}

var clientErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidReference,
	domain.ErrDuplicateName,
	domain.ErrBalanceBlocked,
	domain.ErrMembershipInactive,
	domain.ErrMembershipExpired,
	domain.ErrWeeklyLimitReached,
	domain.ErrTotalLimitReached,
	domain.ErrSessionFull,
	domain.ErrDuplicateBooking,
	domain.ErrInvalidMovementType,
	domain.ErrInvalidPaymentType,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// decodeJSON reads the request body into dst. An empty body leaves dst zero so
// the service reports the first missing field.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &invalidBodyError{err: err}
}

type invalidBodyError struct {
	err error
}

func (e *invalidBodyError) Error() string { return "JSON inválido: " + e.err.Error() }
func (e *invalidBodyError) Unwrap() error { return e.err }

func (s *HTTPServer) writeBodyError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, err.Error())
}

// writeDecodeError lets translate turn a decoding failure into a domain error
// before falling back to the generic invalid body message.
func (s *HTTPServer) writeDecodeError(w http.ResponseWriter, r *http.Request, err error, translate func(error) error) {
	if translate != nil {
		if derr := translate(err); derr != nil {
			s.writeDomainError(w, r, derr)
			return
		}
	}
	s.writeBodyError(w, err)
}

// pathID parses the {id} wildcard. Non-numeric ids do not name a resource.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
