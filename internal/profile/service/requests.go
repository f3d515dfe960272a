package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/midhaven/profiled/internal/profile/domain"
)

// phonePattern is a deliberately loose shape: digits, spaces, parentheses,
// dashes, optional leading +, 7 to 15 characters. Real number validation is
// a rabbit hole this service stays out of.
var phonePattern = regexp.MustCompile(`^\+?[0-9()\s-]{7,15}$`)

const minSecretLength = 6

// ParseDate accepts an ISO-8601 calendar date, either bare (2006-01-02) or
// as the date portion of an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, errors.New("must be a valid date (ISO-8601)")
}

func validDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := ParseDate(s)
	return err
}

// RegisterRequest is the registration input. All fields are validated
// together before any store access; violations come back aggregated, one
// entry per offending field.
type RegisterRequest struct {
	Username    string `json:"username"`
	Secret      string `json:"secret"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

// Normalize trims surrounding whitespace and lowercases the email, matching
// how the store keeps it.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required")),
		validation.Field(&r.Secret,
			validation.Required.Error("secret is required"),
			validation.Length(minSecretLength, 0).Error("secret must be at least 6 characters")),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("must be a valid email address")),
		validation.Field(&r.Phone,
			validation.Match(phonePattern).Error("must be a valid phone number")),
		validation.Field(&r.DateOfBirth,
			validation.By(validDate)),
	)
}

// LoginRequest carries one of username/email plus the secret.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Secret   string `json:"secret"`
}

func (r *LoginRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r LoginRequest) Validate() error {
	errs := validation.Errors{}
	if r.Username == "" && r.Email == "" {
		errs["username"] = errors.New("username or email is required")
	}
	if r.Secret == "" {
		errs["secret"] = errors.New("secret is required")
	}
	return errs.Filter()
}

// UpdateProfileRequest is a partial update: nil means "leave unchanged",
// a present empty string means "clear" for the optional fields. Email is
// required once present; it cannot be cleared.
type UpdateProfileRequest struct {
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
}

func (r *UpdateProfileRequest) Normalize() {
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &e
	}
	if r.Phone != nil {
		p := strings.TrimSpace(*r.Phone)
		r.Phone = &p
	}
	if r.DateOfBirth != nil {
		d := strings.TrimSpace(*r.DateOfBirth)
		r.DateOfBirth = &d
	}
}

func (r UpdateProfileRequest) Validate() error {
	errs := validation.Errors{}
	if r.Email != nil {
		if err := validation.Validate(*r.Email,
			validation.Required.Error("email cannot be empty"),
			is.Email.Error("must be a valid email address"),
		); err != nil {
			errs["email"] = err
		}
	}
	if r.Phone != nil && *r.Phone != "" {
		if err := validation.Validate(*r.Phone,
			validation.Match(phonePattern).Error("must be a valid phone number"),
		); err != nil {
			errs["phone"] = err
		}
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if err := validDate(*r.DateOfBirth); err != nil {
			errs["dateOfBirth"] = err
		}
	}
	return errs.Filter()
}

// Patch converts the validated request into a store-level patch.
func (r UpdateProfileRequest) Patch() domain.AccountPatch {
	p := domain.AccountPatch{
		Email: r.Email,
		Phone: r.Phone,
	}
	if r.DateOfBirth != nil {
		if *r.DateOfBirth == "" {
			p.ClearDateOfBirth = true
		} else if t, err := ParseDate(*r.DateOfBirth); err == nil {
			p.DateOfBirth = &t
		}
	}
	return p
}

// ChangePasswordRequest rotates the account secret.
type ChangePasswordRequest struct {
	CurrentSecret string `json:"currentSecret"`
	NewSecret     string `json:"newSecret"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentSecret,
			validation.Required.Error("currentSecret is required")),
		validation.Field(&r.NewSecret,
			validation.Required.Error("newSecret is required"),
			validation.Length(minSecretLength, 0).Error("newSecret must be at least 6 characters")),
	)
}
