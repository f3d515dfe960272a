package http

import (
	"net/http"

	"github.com/midhaven/profiled/internal/profile/service"
	"github.com/midhaven/profiled/pkg/httpx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP creates an account and returns the summary plus a bearer token.
// Validation failures come back as a field-tagged array; duplicates get one
// generic conflict message regardless of which field collided.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	acct, token, err := h.AccountService.Register(ctx, req)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newAuthResponse(acct, token))
}
