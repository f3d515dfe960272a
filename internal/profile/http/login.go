package http

import (
	"net/http"

	"github.com/midhaven/profiled/internal/profile/service"
	"github.com/midhaven/profiled/pkg/httpx"
)

type LoginHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP verifies credentials and returns the account summary with a
// fresh token. Wrong secret and unknown identifier are indistinguishable
// in both body and status.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	acct, token, err := h.AccountService.Login(ctx, req)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newAuthResponse(acct, token))
}
