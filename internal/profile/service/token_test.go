package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/midhaven/profiled/internal/profile/domain"
	"github.com/midhaven/profiled/pkg/jwtx"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256([]byte("token-test-secret"))
	require.NoError(t, err)

	return &TokenService{
		Signer:   signer,
		Verifier: jwtx.NewVerifierHS256([]byte("token-test-secret"), "profiled-test"),
		Issuer:   "profiled-test",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	acct := domain.Account{ID: "account-1", Username: "alice"}

	token, err := svc.Issue(acct)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, acct.ID, id)
}

func TestTokenDefaultTTL(t *testing.T) {
	svc := newTestTokenService(t)

	// Zero TTL falls back to the seven day default
	token, err := svc.Issue(domain.Account{ID: "account-1"})
	require.NoError(t, err)

	claims, err := svc.Verifier.Verify(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	require.Equal(t, jwtx.DefaultTokenTTL, lifetime)
}

func TestTokenVerifyFailuresAreUniform(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("tampered", func(t *testing.T) {
		token, err := svc.Issue(domain.Account{ID: "account-1"})
		require.NoError(t, err)

		_, err = svc.Verify(ctx, token+"x")
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTestTokenService(t)
		forger, err := jwtx.NewSignerHS256([]byte("some-other-secret"))
		require.NoError(t, err)
		other.Signer = forger

		forged, err := other.Issue(domain.Account{ID: "account-1"})
		require.NoError(t, err)

		_, err = svc.Verify(ctx, forged)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().UTC().Add(-48 * time.Hour)
		claims := jwtx.NewClaims("account-1", "", "profiled-test", time.Hour, past)

		signer, err := jwtx.NewSignerHS256([]byte("token-test-secret"))
		require.NoError(t, err)
		expired, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = svc.Verify(ctx, expired)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwtx.NewClaims("", "", "profiled-test", time.Hour, time.Now().UTC())

		signer, err := jwtx.NewSignerHS256([]byte("token-test-secret"))
		require.NoError(t, err)
		anonymous, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = svc.Verify(ctx, anonymous)
		require.ErrorIs(t, err, ErrNotAuthorized)
	})
}
