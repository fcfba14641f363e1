package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// AuthSource represents the authentication source for a user account.
type AuthSource string

const (
	// AuthSourceLocal indicates the user authenticates with a local database password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the user authenticates via OpenID Connect (OIDC).
	AuthSourceOIDC AuthSource = "oidc"
	// AuthSourceLDAP indicates the user authenticates via LDAP or Active Directory.
	AuthSourceLDAP AuthSource = "ldap"
)

// Role decides what a user may change beyond their own clients.
type Role string

const (
	// RoleAdmin may edit settings and every client's generation credential.
	RoleAdmin Role = "admin"
	// RoleOperator manages their own clients and blogs.
	RoleOperator Role = "operator"
)

// User is a dashboard account and the owner of clients.
type User struct {
	ID         uint64     `gorm:"primaryKey"`
	Active     bool       // inactive users can't log in
	Username   string     `gorm:"unique;size:100;not null"`
	Email      string     `gorm:"size:255;not null"`
	Password   string     `gorm:"size:255" json:"-"` // argon2id hash, local users only
	FirstName  string     `gorm:"size:100"`
	LastName   string     `gorm:"size:100"`
	Role       Role       `gorm:"type:varchar(20);not null;default:'operator'"`
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the OIDC sub claim or the LDAP DN.
	ExternalID string `gorm:"size:255"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// Users without a local password never match.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
