package auth

import (
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
)

// Operation names an action on a course resource.
type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Safe reports whether the operation only reads state.
func (op Operation) Safe() bool {
	return op == OpList || op == OpRead
}

// requiredRole is the role gate per operation. Operations not listed here are denied.
var requiredRole = map[Operation]models.RoleType{
	OpList:   models.RoleStudent,
	OpRead:   models.RoleStudent,
	OpCreate: models.RoleStaff,
	OpUpdate: models.RoleStaff,
	OpDelete: models.RoleStaff,
}

// DenyReason explains a denied decision.
type DenyReason string

const (
	NotAuthenticated DenyReason = "NotAuthenticated"
	InsufficientRole DenyReason = "InsufficientRole"
	NotOwnerOrAdmin  DenyReason = "NotOwnerOrAdmin"
	UnknownOperation DenyReason = "UnknownOperation"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow is the allowing decision.
var Allow = Decision{Allowed: true}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Err converts a denial into the application error taxonomy. It returns nil when allowed.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == NotAuthenticated:
		return apperrors.ErrNotAuthenticated
	case d.Reason == NotOwnerOrAdmin:
		return apperrors.NewForbiddenError("only the owner or an admin may modify this course")
	default:
		return apperrors.NewForbiddenError("you don't have sufficient permissions for this operation")
	}
}

// Authorize decides whether principal may perform op. resourceOwnerID is the
// creator of the target resource, or nil when ownership does not apply.
//
// The role gate is a single rank comparison: ADMIN > STAFF > STUDENT. When an
// owner is given, unsafe operations additionally require the principal to be
// that owner or an ADMIN.
func Authorize(op Operation, principal models.Principal, resourceOwnerID *int64) Decision {
	if !principal.Authenticated {
		return deny(NotAuthenticated)
	}

	minRole, ok := requiredRole[op]
	if !ok {
		return deny(UnknownOperation)
	}
	if !principal.Role.AtLeast(minRole) {
		return deny(InsufficientRole)
	}

	if resourceOwnerID == nil || op.Safe() {
		return Allow
	}
	if principal.ID == *resourceOwnerID || principal.Role == models.RoleAdmin {
		return Allow
	}
	return deny(NotOwnerOrAdmin)
}
