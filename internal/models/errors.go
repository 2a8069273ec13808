package models

import "errors"

// Error taxonomy for the authentication core. Handlers map these to HTTP
// status codes with errors.Is; lower layers wrap them with context.
var (
	// ErrMissingCredentials means the request carried no bearer credential
	ErrMissingCredentials = errors.New("authentication required")
	// ErrWrongCredentials covers both unknown account and bad password,
	// so login failures do not reveal whether an account exists
	ErrWrongCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers malformed, badly signed and expired tokens
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenCreation means signing a new token failed
	ErrTokenCreation = errors.New("failed to create token")
	// ErrPermissionDenied means the requester's role is insufficient
	ErrPermissionDenied = errors.New("permission denied")
	// ErrDuplicateAccount means the account is already registered
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrUserNotFound means the requested user does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrPersistence is an opaque storage failure
	ErrPersistence = errors.New("storage operation failed")
	// ErrHashing means the password hash primitive failed or the stored
	// hash is corrupt; distinct from a plain password mismatch
	ErrHashing = errors.New("password hashing failed")
)
