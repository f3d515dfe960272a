package store

import (
	"context"
	"errors"

	"github.com/midhaven/profiled/internal/profile/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres someday) implement this. Sub-repositories keep concerns tidy and
// let tests fake a single surface.
type Store interface {
	Accounts() Accounts

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Accounts interface {
	// CreateAccount inserts a new account (id is provided by the caller via
	// ULID; the secret hash is computed before the call). A username or
	// email collision returns ErrAlreadyExists -- both columns carry hard
	// UNIQUE constraints, so a racing duplicate loses here even when the
	// service-level pre-check passed.
	CreateAccount(ctx context.Context, a domain.Account) error

	// GetAccountByID returns an account by id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByUsername looks up by the case-sensitive username.
	GetAccountByUsername(ctx context.Context, username string) (domain.Account, error)

	// GetAccountByEmail looks up by the normalized (lowercase) address.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// UpdateAccount applies a partial update, writes only the patched
	// columns, bumps updated_at, and returns the refreshed account.
	UpdateAccount(ctx context.Context, id string, p domain.AccountPatch) (domain.Account, error)

	// UpdatePasswordHash sets the secret hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id string, newHash string) error

	// DeleteAccount removes the account.
	DeleteAccount(ctx context.Context, id string) error
}
