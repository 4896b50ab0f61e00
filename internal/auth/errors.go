package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords. The two cases are deliberately indistinguishable so that
	// login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken means an account with the requested email already exists.
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrUnknownHashScheme means a stored password hash carries an
	// unrecognized prefix. Verification fails closed rather than returning false.
	ErrUnknownHashScheme = errors.New("unknown password hash scheme")

	// ErrMalformedHash means a stored hash has a recognized prefix but
	// cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")

	// ErrSessionInvalid is the single middleware rejection. It covers a
	// missing session, an expired session and a deactivated user without
	// disclosing which check failed.
	ErrSessionInvalid = errors.New("invalid or expired session")
)

// HashError wraps a failure inside a hashing backend. The detail is for
// server-side logs only; handlers surface it as a generic internal error.
type HashError struct {
	Op  string // "hash" or "verify"
	Err error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("password %s failed: %v", e.Op, e.Err)
}

func (e *HashError) Unwrap() error {
	return e.Err
}
