package model

import "time"

// Role values stored in users.role and embedded in the JWT "role" claim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User mirrors a row of the `users` table. Handlers never expose this
// struct directly; response types with JSON tags are defined alongside
// the handlers.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, lower-cased)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role (USER or ADMIN)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
