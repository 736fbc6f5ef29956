package auth

import (
	"slices"
	"time"
)

// RoleAdmin grants access to administrative menu actions and, depending on
// configuration, to hidden plugins.
const RoleAdmin = "admin"

// AuthMethod indicates how a caller was identified.
type AuthMethod string

const (
	AuthMethodAnonymous AuthMethod = "anonymous"
	AuthMethodHeader    AuthMethod = "header"
	AuthMethodJWT       AuthMethod = "jwt"
	AuthMethodLocal     AuthMethod = "local"
)

// Identity represents a menu caller.
type Identity struct {
	// Principal is the caller's user ID as known to the hosting bot.
	Principal string

	// Roles are the roles assigned to this identity.
	Roles []string

	// Method indicates how the caller was identified.
	Method AuthMethod

	// Claims contains the raw token claims, if any.
	Claims map[string]any

	// ExpiresAt is when this identity expires. Zero means never.
	ExpiresAt time.Time
}

// NewIdentity creates an identity for principal with the given roles.
func NewIdentity(principal string, method AuthMethod, roles ...string) *Identity {
	return &Identity{
		Principal: principal,
		Method:    method,
		Roles:     roles,
	}
}

// HasRole checks if the identity has a specific role.
func (id *Identity) HasRole(role string) bool {
	if id == nil {
		return false
	}
	return slices.Contains(id.Roles, role)
}

// IsAdmin reports whether the identity holds RoleAdmin and has not expired.
// A nil identity is never an administrator.
func (id *Identity) IsAdmin() bool {
	return id.HasRole(RoleAdmin) && !id.IsExpired()
}

// IsExpired checks if the identity has expired.
func (id *Identity) IsExpired() bool {
	if id == nil || id.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(id.ExpiresAt)
}

// IsAnonymous returns true if this is an anonymous identity.
func (id *Identity) IsAnonymous() bool {
	return id == nil || id.Method == AuthMethodAnonymous || id.Principal == ""
}

// AnonymousIdentity creates a default anonymous identity.
func AnonymousIdentity() *Identity {
	return &Identity{
		Principal: "anonymous",
		Method:    AuthMethodAnonymous,
	}
}
