package service

import "errors"

var (
	// ErrInvalidCredentials covers both "no such account" and "wrong
	// secret". Callers must surface it identically for both so responses
	// cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountExists is the generic duplicate error. It deliberately
	// does not say whether the username or the email collided.
	ErrAccountExists = errors.New("account already exists")

	// ErrNotAuthorized covers every authorization failure on protected
	// operations, including an account id that no longer resolves.
	ErrNotAuthorized = errors.New("not authorized")
)
