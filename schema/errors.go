package schema

import (
	"errors"
	"strings"
)

// Errors surfaced by the schema core. Handlers map these to HTTP statuses;
// anything else is a datastore failure and propagates as-is.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidKind    = errors.New("invalid field kind")
	ErrDuplicateName  = errors.New("duplicate type name")
	ErrInvalidPayload = errors.New("invalid payload")
)

// uniqueViolation reports whether err looks like a uniqueness-constraint
// failure. Matched by message because the sqlite and mysql drivers return
// different error types.
func uniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}
