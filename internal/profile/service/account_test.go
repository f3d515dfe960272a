package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/require"

	"github.com/midhaven/profiled/internal/profile/store"
	"github.com/midhaven/profiled/internal/profile/store/drivers/sqlite"
	"github.com/midhaven/profiled/pkg/cryptox"
	"github.com/midhaven/profiled/pkg/jwtx"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "service-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func newTestAccountService(t *testing.T) *AccountService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHS256([]byte("service-test-secret"))
	require.NoError(t, err)

	tokens := &TokenService{
		Signer:   signer,
		Verifier: jwtx.NewVerifierHS256([]byte("service-test-secret"), "profiled-test"),
		Issuer:   "profiled-test",
	}

	return &AccountService{Store: st, Tokens: tokens}
}

func TestRegister(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	t.Run("success issues a verifiable token", func(t *testing.T) {
		acct, token, err := svc.Register(ctx, RegisterRequest{
			Username: "alice",
			Secret:   "abcdef",
			Email:    "Alice@Example.COM",
		})
		require.NoError(t, err)
		require.NotEmpty(t, acct.ID)
		require.Equal(t, "alice", acct.Username)
		require.Equal(t, "alice@example.com", acct.Email, "email normalized to lowercase")
		require.NotEmpty(t, token)

		id, err := svc.Tokens.Verify(ctx, token)
		require.NoError(t, err)
		require.Equal(t, acct.ID, id)
	})

	t.Run("optional fields are stored", func(t *testing.T) {
		acct, _, err := svc.Register(ctx, RegisterRequest{
			Username:    "bob",
			Secret:      "abcdef",
			Email:       "bob@example.com",
			Phone:       "+61 400 000 000",
			DateOfBirth: "1990-06-15",
		})
		require.NoError(t, err)
		require.NotNil(t, acct.Phone)
		require.Equal(t, "+61 400 000 000", *acct.Phone)
		require.NotNil(t, acct.DateOfBirth)
		require.Equal(t, time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), *acct.DateOfBirth)
	})

	t.Run("secret is never stored in the clear", func(t *testing.T) {
		acct, _, err := svc.Register(ctx, RegisterRequest{
			Username: "carol",
			Secret:   "supersecret",
			Email:    "carol@example.com",
		})
		require.NoError(t, err)

		stored, err := svc.Store.Accounts().GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		require.NotContains(t, stored.SecretHash, "supersecret")
		require.NoError(t, cryptox.VerifyPassword("supersecret", stored.SecretHash))
	})
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	t.Run("all violations reported at once", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterRequest{
			Username: "",
			Secret:   "abc",
			Email:    "not-an-email",
		})
		require.Error(t, err)

		verrs, ok := err.(validation.Errors)
		require.True(t, ok, "expected aggregated validation errors, got %T", err)
		require.Contains(t, verrs, "username")
		require.Contains(t, verrs, "secret")
		require.Contains(t, verrs, "email")
	})

	t.Run("bad phone and date tagged to their fields", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterRequest{
			Username:    "dave",
			Secret:      "abcdef",
			Email:       "dave@example.com",
			Phone:       "not a phone!",
			DateOfBirth: "15/06/1990",
		})
		require.Error(t, err)

		verrs, ok := err.(validation.Errors)
		require.True(t, ok)
		require.Contains(t, verrs, "phone")
		require.Contains(t, verrs, "dateOfBirth")
		require.NotContains(t, verrs, "username")
	})

	t.Run("validation failure writes nothing", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterRequest{
			Username: "ghost",
			Secret:   "x",
			Email:    "ghost@example.com",
		})
		require.Error(t, err)

		_, err = svc.Store.Accounts().GetAccountByUsername(ctx, "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRegisterDuplicates(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterRequest{
		Username: "taken",
		Secret:   "abcdef",
		Email:    "taken@example.com",
	})
	require.NoError(t, err)

	t.Run("duplicate username", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterRequest{
			Username: "taken",
			Secret:   "abcdef",
			Email:    "fresh@example.com",
		})
		require.ErrorIs(t, err, ErrAccountExists)
	})

	t.Run("duplicate email gives the identical error", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterRequest{
			Username: "fresh",
			Secret:   "abcdef",
			Email:    "taken@example.com",
		})
		require.ErrorIs(t, err, ErrAccountExists)
	})
}

func TestLogin(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	registered, firstToken, err := svc.Register(ctx, RegisterRequest{
		Username: "erin",
		Secret:   "abcdef",
		Email:    "erin@example.com",
	})
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		acct, token, err := svc.Login(ctx, LoginRequest{Username: "erin", Secret: "abcdef"})
		require.NoError(t, err)
		require.Equal(t, registered.ID, acct.ID)
		require.NotEmpty(t, token)
		require.NotEqual(t, firstToken, token, "each login mints a distinct token")
	})

	t.Run("by email", func(t *testing.T) {
		acct, _, err := svc.Login(ctx, LoginRequest{Email: "ERIN@example.com", Secret: "abcdef"})
		require.NoError(t, err)
		require.Equal(t, registered.ID, acct.ID)
	})

	t.Run("wrong secret and unknown user are indistinguishable", func(t *testing.T) {
		_, _, errWrong := svc.Login(ctx, LoginRequest{Username: "erin", Secret: "wrong!"})
		_, _, errUnknown := svc.Login(ctx, LoginRequest{Username: "nobody", Secret: "abcdef"})

		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		require.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("missing identifier rejected before any lookup", func(t *testing.T) {
		_, _, err := svc.Login(ctx, LoginRequest{Secret: "abcdef"})
		require.Error(t, err)

		verrs, ok := err.(validation.Errors)
		require.True(t, ok)
		require.Contains(t, verrs, "username")
	})
}

func TestUpdateProfile(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	acct, _, err := svc.Register(ctx, RegisterRequest{
		Username:    "frank",
		Secret:      "abcdef",
		Email:       "frank@example.com",
		Phone:       "0400 111 222",
		DateOfBirth: "1980-03-04",
	})
	require.NoError(t, err)

	strptr := func(s string) *string { return &s }

	t.Run("absent fields stay untouched", func(t *testing.T) {
		got, err := svc.UpdateProfile(ctx, acct.ID, UpdateProfileRequest{
			Phone: strptr("123-456-7890"),
		})
		require.NoError(t, err)
		require.Equal(t, "123-456-7890", *got.Phone)
		require.Equal(t, "frank@example.com", got.Email)
		require.NotNil(t, got.DateOfBirth)
	})

	t.Run("empty string clears optional fields", func(t *testing.T) {
		got, err := svc.UpdateProfile(ctx, acct.ID, UpdateProfileRequest{
			Phone:       strptr(""),
			DateOfBirth: strptr(""),
		})
		require.NoError(t, err)
		require.Nil(t, got.Phone)
		require.Nil(t, got.DateOfBirth)
	})

	t.Run("email cannot be cleared", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, acct.ID, UpdateProfileRequest{
			Email: strptr(""),
		})
		require.Error(t, err)

		verrs, ok := err.(validation.Errors)
		require.True(t, ok)
		require.Contains(t, verrs, "email")
	})

	t.Run("invalid fields aggregate without writing", func(t *testing.T) {
		before, err := svc.Store.Accounts().GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, acct.ID, UpdateProfileRequest{
			Email: strptr("nope"),
			Phone: strptr("also nope!"),
		})
		require.Error(t, err)

		verrs, ok := err.(validation.Errors)
		require.True(t, ok)
		require.Contains(t, verrs, "email")
		require.Contains(t, verrs, "phone")

		after, err := svc.Store.Accounts().GetAccountByID(ctx, acct.ID)
		require.NoError(t, err)
		require.Equal(t, before.UpdatedAt, after.UpdatedAt, "failed validation must not write")
	})

	t.Run("empty patch returns current state", func(t *testing.T) {
		got, err := svc.UpdateProfile(ctx, acct.ID, UpdateProfileRequest{})
		require.NoError(t, err)
		require.Equal(t, acct.ID, got.ID)
	})

	t.Run("email collision maps to the generic conflict", func(t *testing.T) {
		_, _, err := svc.Register(ctx, RegisterRequest{
			Username: "grace",
			Secret:   "abcdef",
			Email:    "grace@example.com",
		})
		require.NoError(t, err)

		_, err = svc.UpdateProfile(ctx, acct.ID, UpdateProfileRequest{
			Email: strptr("grace@example.com"),
		})
		require.ErrorIs(t, err, ErrAccountExists)
	})

	t.Run("vanished account reads as not authorized", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK", UpdateProfileRequest{
			Phone: strptr("0400 000 000"),
		})
		require.ErrorIs(t, err, ErrNotAuthorized)
	})
}

func TestChangePassword(t *testing.T) {
	svc := newTestAccountService(t)
	ctx := context.Background()

	acct, _, err := svc.Register(ctx, RegisterRequest{
		Username: "henry",
		Secret:   "oldsecret",
		Email:    "henry@example.com",
	})
	require.NoError(t, err)

	t.Run("wrong current secret rejected", func(t *testing.T) {
		err := svc.ChangePassword(ctx, acct.ID, ChangePasswordRequest{
			CurrentSecret: "wrong",
			NewSecret:     "newsecret",
		})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rotation takes effect", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(ctx, acct.ID, ChangePasswordRequest{
			CurrentSecret: "oldsecret",
			NewSecret:     "newsecret",
		}))

		_, _, err := svc.Login(ctx, LoginRequest{Username: "henry", Secret: "oldsecret"})
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, LoginRequest{Username: "henry", Secret: "newsecret"})
		require.NoError(t, err)
	})

	t.Run("short new secret rejected", func(t *testing.T) {
		err := svc.ChangePassword(ctx, acct.ID, ChangePasswordRequest{
			CurrentSecret: "newsecret",
			NewSecret:     "short",
		})
		require.Error(t, err)

		verrs, ok := err.(validation.Errors)
		require.True(t, ok)
		require.Contains(t, verrs, "newSecret")
	})
}
