package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/midhaven/profiled/internal/profile/domain"
	"github.com/midhaven/profiled/internal/profile/store"
	"github.com/midhaven/profiled/pkg/httpx"
	"github.com/midhaven/profiled/pkg/slogx"
)

type ctxKey string

const ctxKeyAccount ctxKey = "account"

// requireAccount runs after the bearer token has been verified and resolves
// the token subject to a live account, binding it to the request context.
// An id that no longer resolves yields the same "not authorized" as a bad
// token: a deleted account must not read differently from a forged one.
func requireAccount(st store.Store) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			id := httpx.AccountIDFromContext(ctx)
			if id == "" {
				httpx.WriteNotAuthorized(w)
				return
			}

			acct, err := st.Accounts().GetAccountByID(ctx, id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					httpx.WriteNotAuthorized(w)
					return
				}
				slogx.FromContext(ctx).Error("account resolution failed",
					"account_id", id, "err", err)
				httpx.WriteJSON(w, http.StatusInternalServerError,
					ErrorResponse{Message: "internal server error"})
				return
			}

			ctx = context.WithValue(ctx, ctxKeyAccount, acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accountFromContext(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(ctxKeyAccount).(domain.Account)
	return a, ok
}
