package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/midhaven/profiled/pkg/jwtx"
	"github.com/midhaven/profiled/pkg/slogx"
)

// AuthnMiddleware verifies the bearer token on every request it wraps and
// injects the token subject into the context. All failure causes (missing
// header, malformed token, bad signature, expired) produce the exact same
// response; the distinction only reaches the logs.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteNotAuthorized(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				WriteNotAuthorized(w)
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAccountID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// WriteNotAuthorized writes the uniform authorization-failure response.
// Handlers reuse it so downstream failures (e.g. account no longer exists)
// are indistinguishable from token failures.
func WriteNotAuthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "not authorized"})
}
