package httpx

import "context"

type ctxKey string

const (
	CtxKeyAccountID ctxKey = "account_id"
	CtxKeyClaims    ctxKey = "claims" // full jwtx.Claims if a handler wants them
)

// AccountIDFromContext returns the authenticated account id injected by
// AuthnMiddleware, or "" when the request never passed the gate.
func AccountIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}
