package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures. Handlers map them to HTTP
// statuses at the boundary; stores wrap driver errors into them.
var (
	// ErrUserAlreadyExists indicates a registration attempt reused an email
	// address already present in the system.
	ErrUserAlreadyExists = errors.New("user with this email already exists")

	// ErrInvalidCredentials covers both a bad email/password combination and
	// an invalid, expired or missing bearer token.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrValidation indicates a request is missing a required field, such as
	// a message send without a receiver or with empty content.
	ErrValidation = errors.New("missing or invalid field")

	// ErrNotFound indicates the requested record does not exist. History
	// queries deliberately do NOT return this: an empty conversation is an
	// empty result, not an error.
	ErrNotFound = errors.New("requested resource not found")
)
