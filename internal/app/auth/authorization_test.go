package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/unisphere-courses/internal/app/models"
	"github.com/yigit/unisphere-courses/internal/pkg/apperrors"
)

func principal(id int64, role models.RoleType) models.Principal {
	return models.Principal{ID: id, Role: role, Authenticated: true}
}

func owner(id int64) *int64 { return &id }

func TestAuthorize_ReadOperationsAllowEveryRole(t *testing.T) {
	for _, role := range []models.RoleType{models.RoleStudent, models.RoleStaff, models.RoleAdmin} {
		for _, op := range []Operation{OpList, OpRead} {
			d := Authorize(op, principal(1, role), nil)
			assert.True(t, d.Allowed, "%s should be able to %s", role, op)
		}
	}
}

func TestAuthorize_UnauthenticatedIsAlwaysDenied(t *testing.T) {
	for _, op := range []Operation{OpList, OpRead, OpCreate, OpUpdate, OpDelete} {
		d := Authorize(op, models.Anonymous, nil)
		assert.False(t, d.Allowed)
		assert.Equal(t, NotAuthenticated, d.Reason)
		assert.ErrorIs(t, d.Err(), apperrors.ErrNotAuthenticated)
	}

	// An unauthenticated principal carrying a role is still anonymous.
	d := Authorize(OpList, models.Principal{ID: 1, Role: models.RoleAdmin}, nil)
	assert.Equal(t, NotAuthenticated, d.Reason)
}

func TestAuthorize_MissingRoleIsDenied(t *testing.T) {
	for _, op := range []Operation{OpList, OpRead, OpCreate, OpDelete} {
		d := Authorize(op, principal(1, ""), nil)
		assert.False(t, d.Allowed)
		assert.Equal(t, InsufficientRole, d.Reason)
		assert.ErrorIs(t, d.Err(), apperrors.ErrPermissionDenied)
	}
}

func TestAuthorize_StudentCannotMutateEvenOwnResource(t *testing.T) {
	for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
		assert.Equal(t, InsufficientRole, Authorize(op, principal(5, models.RoleStudent), nil).Reason)
		assert.Equal(t, InsufficientRole, Authorize(op, principal(5, models.RoleStudent), owner(5)).Reason)
	}
}

func TestAuthorize_StaffAndAdminMayCreateAndDelete(t *testing.T) {
	for _, role := range []models.RoleType{models.RoleStaff, models.RoleAdmin} {
		assert.True(t, Authorize(OpCreate, principal(2, role), nil).Allowed)
		assert.True(t, Authorize(OpDelete, principal(2, role), nil).Allowed)
	}
}

func TestAuthorize_OwnerRule(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		who     models.Principal
		owner   *int64
		allowed bool
		reason  DenyReason
	}{
		{"owner may update", OpUpdate, principal(9, models.RoleStaff), owner(9), true, ""},
		{"non-owner staff may not update", OpUpdate, principal(8, models.RoleStaff), owner(9), false, NotOwnerOrAdmin},
		{"non-owner staff may not delete", OpDelete, principal(8, models.RoleStaff), owner(9), false, NotOwnerOrAdmin},
		{"admin may update anything", OpUpdate, principal(1, models.RoleAdmin), owner(9), true, ""},
		{"safe op ignores ownership", OpRead, principal(8, models.RoleStudent), owner(9), true, ""},
		{"no owner means no ownership check", OpDelete, principal(8, models.RoleStaff), nil, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.op, tt.who, tt.owner)
			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, tt.reason, d.Reason)
			if !tt.allowed {
				assert.ErrorIs(t, d.Err(), apperrors.ErrPermissionDenied)
			} else {
				assert.NoError(t, d.Err())
			}
		})
	}
}

func TestAuthorize_UnknownOperation(t *testing.T) {
	d := Authorize(Operation("archive"), principal(1, models.RoleAdmin), nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, UnknownOperation, d.Reason)
}
