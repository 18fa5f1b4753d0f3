package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"reservation-backoffice/internal/domain"
	"reservation-backoffice/internal/logger"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// mutationResult is the envelope of every write endpoint
type mutationResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type readError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func ok(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func mutated(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, mutationResult{Success: true, Data: v})
}

// statusFor maps a domain error kind to its HTTP status
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindPermission:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindPolicy:
		return http.StatusUnprocessableEntity
	case domain.KindConflict, domain.KindReferentialIntegrity:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError renders err with the envelope matching the request: reads get {error},
// writes get {success:false, error}. Unclassified errors never leak their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := domain.PublicMessage(err, "internal server error")
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	if r.Method == http.MethodGet {
		writeJSON(w, status, readError{Error: msg})
		return
	}
	writeJSON(w, status, mutationResult{Success: false, Error: msg})
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("request body is required")
		case errors.As(err, &syntaxErr):
			return domain.NewValidationError("malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return domain.NewValidationError("invalid value for field %q", typeErr.Field)
		default:
			return domain.NewValidationError("invalid request body: %v", err)
		}
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || v <= 0 {
		return 0, domain.NewValidationError("invalid %s", name)
	}
	return int32(v), nil
}

func queryInt32(r *http.Request, name string) (int32, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, domain.NewValidationError("invalid %s", name)
	}
	return int32(v), nil
}

func queryOptionalID(r *http.Request, name string) (*int32, error) {
	v, err := queryInt32(r, name)
	if err != nil || v == 0 {
		return nil, err
	}
	return &v, nil
}

func queryPage(r *http.Request) (domain.Page, error) {
	page, err := queryInt32(r, "page")
	if err != nil {
		return domain.Page{}, err
	}
	limit, err := queryInt32(r, "limit")
	if err != nil {
		return domain.Page{}, err
	}
	return domain.Page{Page: page, Limit: limit}.Normalize(), nil
}

func queryTime(r *http.Request, name string) (time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, domain.NewValidationError("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid %s, expected RFC 3339", name)
	}
	return t, nil
}

// queryDate parses a yyyy-mm-dd day in loc; ok is false when absent
func queryDate(r *http.Request, name string, loc *time.Location) (t time.Time, present bool, err error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return time.Time{}, false, nil
	}
	t, err = time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, true, domain.NewValidationError("invalid %s, expected yyyy-mm-dd", name)
	}
	return t, true, nil
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, domain.NewNotFoundError("no route for %s %s", r.Method, r.URL.Path))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, readError{Error: fmt.Sprintf("method %s not allowed", r.Method)})
}
