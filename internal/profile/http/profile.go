package http

import (
	"net/http"

	"github.com/midhaven/profiled/internal/profile/service"
	"github.com/midhaven/profiled/pkg/httpx"
)

type ProfileHandler struct {
	AccountService *service.AccountService
}

// HandleGet returns the authenticated account's profile. The account was
// already resolved by the gate; no further store access needed.
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	acct, ok := accountFromContext(r.Context())
	if !ok {
		httpx.WriteNotAuthorized(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(acct))
}

// HandlePatch applies a partial update: absent fields stay untouched, a
// present empty string clears the optional fields.
func (h *ProfileHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	acct, ok := accountFromContext(ctx)
	if !ok {
		httpx.WriteNotAuthorized(w)
		return
	}

	var req service.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := h.AccountService.UpdateProfile(ctx, acct.ID, req)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newProfileResponse(updated))
}

// HandlePassword rotates the account secret after re-verifying the current
// one.
func (h *ProfileHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	acct, ok := accountFromContext(ctx)
	if !ok {
		httpx.WriteNotAuthorized(w)
		return
	}

	var req service.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.AccountService.ChangePassword(ctx, acct.ID, req); err != nil {
		writeServiceError(r, w, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
