// Package repository contains the data access layer. Sentinel errors
// defined here let handlers map failures to HTTP statuses without
// inspecting driver-specific errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update collides with
// existing state, such as a duplicate genre name. Handlers translate it
// into HTTP 400 or 409 depending on the endpoint.
var ErrConflict = errors.New("conflict")

// ErrSeatsTaken is returned when an order requests seats that are
// already sold for the session.
var ErrSeatsTaken = errors.New("seats already taken")

// ErrSeatOutOfRange is returned when a requested seat lies outside the
// hall geometry of the session.
var ErrSeatOutOfRange = errors.New("seat out of range")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isFKViolation reports whether err is a MySQL foreign-key error (1452).
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}

// placeholders returns n comma-separated SQL placeholders, e.g. "?,?,?".
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
