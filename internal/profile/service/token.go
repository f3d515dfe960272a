package service

import (
	"context"
	"time"

	"github.com/midhaven/profiled/internal/profile/domain"
	"github.com/midhaven/profiled/pkg/jwtx"
	"github.com/midhaven/profiled/pkg/slogx"
)

// TokenService issues and verifies the stateless bearer tokens binding a
// request to an account id. There is no server-side session table and no
// pre-expiry revocation; a token is valid exactly as long as its signature
// checks out and its expiry hasn't passed.
type TokenService struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
}

// Issue mints a signed token for the account.
func (s *TokenService) Issue(a domain.Account) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultTokenTTL
	}
	claims := jwtx.NewClaims(a.ID, a.Username, s.Issuer, ttl, time.Now().UTC())
	return s.Signer.Sign(claims)
}

// Verify resolves a raw token to the account id it asserts. Malformed,
// tampered and expired tokens all come back as ErrNotAuthorized; which one
// it was only reaches the logs, so callers can't probe the difference.
func (s *TokenService) Verify(ctx context.Context, raw string) (string, error) {
	claims, err := s.Verifier.Verify(raw)
	if err != nil {
		slogx.FromContext(ctx).Warn("token rejected", "err", err)
		return "", ErrNotAuthorized
	}
	if claims.Subject == "" {
		return "", ErrNotAuthorized
	}
	return claims.Subject, nil
}
