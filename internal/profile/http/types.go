package http

import (
	"time"

	"github.com/midhaven/profiled/internal/profile/domain"
)

// AuthResponse is returned by registration and login: the account summary
// plus a fresh bearer token. The secret and its hash never appear here.
type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

// ProfileResponse is the account's own view of its record.
type ProfileResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Phone       *string   `json:"phone,omitempty"`
	DateOfBirth *string   `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newAuthResponse(a domain.Account, token string) AuthResponse {
	return AuthResponse{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Token:    token,
	}
}

func newProfileResponse(a domain.Account) ProfileResponse {
	resp := ProfileResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.DateOfBirth != nil {
		dob := a.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &dob
	}
	return resp
}
