package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/midhaven/profiled/internal/profile/service"
	"github.com/midhaven/profiled/pkg/httpx"
	"github.com/midhaven/profiled/pkg/slogx"
)

// FieldError tags a validation message with the field it belongs to.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error body shape for every endpoint. Errors is only
// present for validation failures.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Message: msg})
}

// writeValidationErrors flattens ozzo's per-field error map into a sorted
// array so callers can surface every violation at once.
func writeValidationErrors(w http.ResponseWriter, verrs validation.Errors) {
	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldError{Field: f, Message: verrs[f].Error()})
	}

	httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Message: "validation failed",
		Errors:  out,
	})
}

// writeServiceError is the single error-kind-to-status mapping for all
// flows. Anything unrecognized is an internal error: logged in full,
// echoed as a generic 500.
func writeServiceError(r *http.Request, w http.ResponseWriter, err error) {
	var verrs validation.Errors

	switch {
	case errors.As(err, &verrs):
		writeValidationErrors(w, verrs)
	case errors.Is(err, service.ErrAccountExists):
		writeBadRequest(w, "account already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "invalid credentials"})
	case errors.Is(err, service.ErrNotAuthorized):
		httpx.WriteNotAuthorized(w)
	default:
		slogx.FromContext(r.Context()).Error("internal error", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}
