package domain

import "time"

// Account is the sole persistent entity: one record per registered user.
type Account struct {
	ID         string
	Username   string // unique, case-sensitive, trimmed
	Email      string // unique, stored lowercased
	SecretHash string // argon2id PHC string; never serialized to a response

	// Optional profile fields. nil means unset, which is distinct from
	// an explicitly cleared value arriving as an empty patch field.
	Phone       *string
	DateOfBirth *time.Time // date precision only

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountPatch describes a partial update. A nil field leaves the column
// untouched; the store adapter only writes what the patch carries.
type AccountPatch struct {
	// Email replaces the address when non-nil. Validation upstream
	// guarantees it is never empty: email cannot be cleared.
	Email *string

	// Phone replaces the number when non-nil; the empty string clears it.
	Phone *string

	// DateOfBirth sets the date when non-nil. ClearDateOfBirth wins over
	// a set value and nulls the column.
	DateOfBirth      *time.Time
	ClearDateOfBirth bool
}

// IsZero reports whether the patch would touch nothing.
func (p AccountPatch) IsZero() bool {
	return p.Email == nil && p.Phone == nil && p.DateOfBirth == nil && !p.ClearDateOfBirth
}
