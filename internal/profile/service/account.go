package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/midhaven/profiled/internal/profile/domain"
	"github.com/midhaven/profiled/internal/profile/store"
	"github.com/midhaven/profiled/pkg/cryptox"
	"github.com/midhaven/profiled/pkg/idx"
	"github.com/midhaven/profiled/pkg/slogx"
)

// AccountService implements the credential lifecycle: registration, login,
// and the profile mutations behind the authorization gate.
type AccountService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register validates the input, creates the account with a hashed secret,
// and issues a bearer token. Validation happens entirely before any store
// access; the duplicate pre-check is a courtesy on top of the store's hard
// unique constraints, and both paths surface the same generic conflict.
func (s *AccountService) Register(
	ctx context.Context,
	req RegisterRequest,
) (domain.Account, string, error) {
	log := slogx.FromContext(ctx)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return domain.Account{}, "", err
	}

	if err := s.checkAvailable(ctx, req.Username, req.Email); err != nil {
		return domain.Account{}, "", err
	}

	// Hashing is an explicit step ahead of the create; the store only ever
	// sees the hashed form.
	hash, err := cryptox.HashPassword(req.Secret)
	if err != nil {
		log.Error("failed to hash secret", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	a := domain.Account{
		ID:         idx.New().String(),
		Username:   req.Username,
		Email:      req.Email,
		SecretHash: hash,
	}
	if req.Phone != "" {
		phone := req.Phone
		a.Phone = &phone
	}
	if req.DateOfBirth != "" {
		dob, _ := ParseDate(req.DateOfBirth) // validated above
		a.DateOfBirth = &dob
	}

	if err := s.Store.Accounts().CreateAccount(ctx, a); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost the race against a concurrent registration; same
			// generic answer as the pre-check.
			return domain.Account{}, "", ErrAccountExists
		}
		log.Error("failed to create account", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	created, err := s.Store.Accounts().GetAccountByID(ctx, a.ID)
	if err != nil {
		return domain.Account{}, "", err
	}

	token, err := s.Tokens.Issue(created)
	if err != nil {
		log.Error("failed to issue token", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	log.Info("account registered",
		slog.String("account_id", created.ID),
		slog.String("username", created.Username),
	)
	return created, token, nil
}

// Login verifies credentials and issues a fresh token. Unknown identifier
// and wrong secret return the identical error, and the unknown-identifier
// path still burns a full verification so timing doesn't tell them apart.
func (s *AccountService) Login(
	ctx context.Context,
	req LoginRequest,
) (domain.Account, string, error) {
	log := slogx.FromContext(ctx)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return domain.Account{}, "", err
	}

	var (
		acct domain.Account
		err  error
	)
	if req.Username != "" {
		acct, err = s.Store.Accounts().GetAccountByUsername(ctx, req.Username)
	} else {
		acct, err = s.Store.Accounts().GetAccountByEmail(ctx, req.Email)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.VerifyDummy(req.Secret)
			return domain.Account{}, "", ErrInvalidCredentials
		}
		log.Error("account lookup failed", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	if err := cryptox.VerifyPassword(req.Secret, acct.SecretHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored secret hash unusable",
				slog.String("account_id", acct.ID),
				slog.Any("error", err),
			)
		}
		return domain.Account{}, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(acct)
	if err != nil {
		log.Error("failed to issue token", slog.Any("error", err))
		return domain.Account{}, "", err
	}

	log.Info("login succeeded", slog.String("account_id", acct.ID))
	return acct, token, nil
}

// UpdateProfile applies a partial update to the authenticated account.
// Validation failures perform no write at all; on success only the patched
// fields are persisted and the refreshed account comes back.
func (s *AccountService) UpdateProfile(
	ctx context.Context,
	accountID string,
	req UpdateProfileRequest,
) (domain.Account, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return domain.Account{}, err
	}

	patch := req.Patch()
	if patch.IsZero() {
		// Nothing to change; hand back the current view.
		acct, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotAuthorized
		}
		return acct, err
	}

	updated, err := s.Store.Accounts().UpdateAccount(ctx, accountID, patch)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Account{}, ErrAccountExists
	case errors.Is(err, store.ErrNotFound):
		// Account vanished between the gate and the write.
		return domain.Account{}, ErrNotAuthorized
	case err != nil:
		slogx.FromContext(ctx).Error("profile update failed",
			slog.String("account_id", accountID),
			slog.Any("error", err),
		)
		return domain.Account{}, err
	}

	return updated, nil
}

// ChangePassword verifies the current secret and replaces the stored hash.
// The secret hash only ever changes through this path, never as a side
// effect of other field updates.
func (s *AccountService) ChangePassword(
	ctx context.Context,
	accountID string,
	req ChangePasswordRequest,
) error {
	log := slogx.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return err
	}

	acct, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotAuthorized
		}
		return err
	}

	if err := cryptox.VerifyPassword(req.CurrentSecret, acct.SecretHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(req.NewSecret)
	if err != nil {
		log.Error("failed to hash secret", slog.Any("error", err))
		return err
	}

	if err := s.Store.Accounts().UpdatePasswordHash(ctx, accountID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotAuthorized
		}
		return err
	}

	log.Info("password changed", slog.String("account_id", accountID))
	return nil
}

// checkAvailable is the courtesy duplicate pre-check. Either collision maps
// to the one generic conflict error so the response never reveals whether a
// username or an email is taken.
func (s *AccountService) checkAvailable(ctx context.Context, username, email string) error {
	if _, err := s.Store.Accounts().GetAccountByUsername(ctx, username); err == nil {
		return ErrAccountExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	if _, err := s.Store.Accounts().GetAccountByEmail(ctx, email); err == nil {
		return ErrAccountExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	return nil
}
