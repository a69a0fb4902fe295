package tenant

import (
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
)

// Role is the membership role of a user inside one tenant.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
	RoleAgency   Role = "AGENCY"
)

// CanApproveLeaves reports whether the role may decide leave requests.
func (r Role) CanApproveLeaves() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager:
		return true
	}
	return false
}

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee, RoleAgency:
		return true
	}
	return false
}

// Context identifies the tenant and acting user for one operation. It is
// resolved once by the identity layer and threaded explicitly through every
// service call; the core never infers the tenant from anywhere else.
type Context struct {
	TenantID    uuid.UUID
	ActorUserID uuid.UUID
	// EmployeeID is uuid.Nil for memberships without an employee record
	// (pure back-office users).
	EmployeeID uuid.UUID
	Role       Role
}

// Validate fails with Unauthorized when the tuple is incomplete.
func (c Context) Validate() error {
	if c.TenantID == uuid.Nil || c.ActorUserID == uuid.Nil || !c.Role.Valid() {
		return apperror.ErrUnauthorized
	}
	return nil
}
