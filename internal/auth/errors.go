package auth

import "errors"

var (
	// ErrNoToken indicates a missing or malformed Authorization header.
	ErrNoToken = errors.New("auth: no token provided")
	// ErrInvalidToken covers every verifier and profile fetch failure.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrMissingEmail signals that the verified identity carries no email.
	ErrMissingEmail = errors.New("auth: email not found in privy user")
	// ErrInternal signals a store or other infrastructure failure.
	ErrInternal = errors.New("auth: internal failure")
)
