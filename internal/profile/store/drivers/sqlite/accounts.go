package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/midhaven/profiled/internal/profile/domain"
	"github.com/midhaven/profiled/internal/profile/store"
)

type accountsRepo struct {
	db *sql.DB
}

const accountColumns = `id, username, email, secret_hash, phone, date_of_birth, created_at, updated_at`

func (r *accountsRepo) CreateAccount(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, email, secret_hash, phone, date_of_birth, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.Username,
		a.Email,
		a.SecretHash,
		mapOptionalString(a.Phone),
		mapOptionalDate(a.DateOfBirth),
		now,
		now,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) GetAccountByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByUsername(ctx context.Context, username string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return scanAccount(row)
}

func (r *accountsRepo) GetAccountByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, strings.ToLower(email))
	return scanAccount(row)
}

// UpdateAccount builds an UPDATE touching only the columns the patch
// carries. updated_at is always refreshed; nothing else is written unless
// explicitly patched, so concurrent updates race per field, never clobbering
// fields the request left out.
func (r *accountsRepo) UpdateAccount(
	ctx context.Context,
	id string,
	p domain.AccountPatch,
) (domain.Account, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(*p.Email))
	}
	if p.Phone != nil {
		if *p.Phone == "" {
			sets = append(sets, "phone = NULL")
		} else {
			sets = append(sets, "phone = ?")
			args = append(args, *p.Phone)
		}
	}
	switch {
	case p.ClearDateOfBirth:
		sets = append(sets, "date_of_birth = NULL")
	case p.DateOfBirth != nil:
		sets = append(sets, "date_of_birth = ?")
		args = append(args, p.DateOfBirth.Format(dateLayout))
	}

	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Account{}, mapConstraint(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.Account{}, store.ErrNotFound
	}

	return r.GetAccountByID(ctx, id)
}

func (r *accountsRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET secret_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (domain.Account, error) {
	var (
		a     domain.Account
		phone sql.NullString
		dob   sql.NullString
	)
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.SecretHash,
		&phone,
		&dob,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}

	a.Phone = mapNullStringPtr(phone)
	a.DateOfBirth = mapNullDatePtr(dob)
	return a, nil
}
