package models

// Principal is the caller identity attached to a request. It is built per
// request from the bearer token and never persisted.
type Principal struct {
	ID            int64    `json:"id"`
	Role          RoleType `json:"role"`
	Authenticated bool     `json:"authenticated"`
}

// Anonymous is the principal used when a request carries no valid credential.
var Anonymous = Principal{}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Authenticated && p.Role == RoleAdmin
}
