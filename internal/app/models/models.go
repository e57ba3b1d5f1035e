package models

import "strings"

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleStaff   RoleType = "STAFF"
	RoleAdmin   RoleType = "ADMIN"
)

// Rank orders roles so that a higher role includes every lower one.
// Unknown or empty roles rank 0 and pass no role gate.
func (r RoleType) Rank() int {
	switch r {
	case RoleStudent:
		return 1
	case RoleStaff:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r ranks at or above min.
func (r RoleType) AtLeast(min RoleType) bool {
	return r.Rank() > 0 && r.Rank() >= min.Rank()
}

// ParseRoleType normalizes a role claim. Unrecognized values yield "".
func ParseRoleType(s string) RoleType {
	role := RoleType(strings.ToUpper(strings.TrimSpace(s)))
	if role.Rank() == 0 {
		return ""
	}
	return role
}
