// Package validation holds the input policy checks used at the service
// boundary. Errors carry the offending field so handlers can return them
// as 400 responses without leaking anything sensitive.
package validation

import (
	"fmt"
	"regexp"
)

// RFC 5321 caps the total address length at 254.
const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Error is a field-level policy violation, safe to expose to clients.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateEmail checks that the email is present and shaped like an address.
func ValidateEmail(email string) error {
	if email == "" {
		return &Error{Field: "email", Reason: "is required"}
	}
	if len(email) > maxEmailLength || !emailPattern.MatchString(email) {
		return &Error{Field: "email", Reason: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks presence and the configured minimum length.
func ValidatePassword(password string, minLength int) error {
	if password == "" {
		return &Error{Field: "password", Reason: "is required"}
	}
	if len(password) < minLength {
		return &Error{Field: "password", Reason: fmt.Sprintf("must be at least %d characters", minLength)}
	}
	return nil
}
