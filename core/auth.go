package core

import "time"

// Role is the coarse authorization level carried in credential claims.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Principal is an authenticated identity. Created by registration, read by
// login and refresh; this subsystem never mutates it.
type Principal struct {
	ID           string    // Unique principal identifier
	Email        string    // Unique login email
	Name         string    // Display name
	Role         Role      // Authorization role
	PasswordHash string    // bcrypt hash of the login password
	CreatedAt    time.Time // When the principal was registered
}

// Claims is the identity payload embedded in both credential types. Derived
// from a Principal at issuance time; immutable once signed.
type Claims struct {
	PrincipalID string
	Name        string
	Role        Role
}

// SessionRecord is the persisted state backing one refresh credential. A
// principal may own any number of concurrently active records, one per device.
// A record transitions active -> revoked exactly once and never reverses.
type SessionRecord struct {
	ID           string    // Unique record identifier
	PrincipalID  string    // Owning principal
	SecretHash   string    // bcrypt hash of the refresh credential fingerprint
	ExpiresAt    time.Time // Time-based invalidation, separate from revocation
	Revoked      bool      // Explicit one-way revocation
	CreatedAt    time.Time // When the record was created
}

// Usable reports whether the record can still back a rotation at the given
// instant. Replay defense additionally requires the atomic revocation claim in
// the store; this check only filters expired or already-revoked records.
func (r SessionRecord) Usable(now time.Time) bool {
	return !r.Revoked && now.Before(r.ExpiresAt)
}
