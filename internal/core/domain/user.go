package domain

import "time"

const (
	// RoleAdmin guards the resource registry endpoints.
	RoleAdmin = "PIC_SURE_ADMIN"
)

// User is the durable identity record behind every authenticated caller.
// UserID is the primary lookup key and never changes once the record exists.
// Roles are assigned out of band by an administrative service; the gateway
// only reads them.
type User struct {
	UserID    string    `json:"user_id"`
	Subject   string    `json:"subject"`
	Roles     []string  `json:"roles,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AuthenticatedIdentity is the per-request view of a verified caller. It is
// built once by the gatekeeper and carried through the request context;
// it is never persisted.
type AuthenticatedIdentity struct {
	UserID string
	Roles  []string
}

// HasRole reports whether the identity carries the given role.
func (id *AuthenticatedIdentity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}
