package tenant

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(255);not null"`
	Slug string    `gorm:"type:varchar(64);not null;uniqueIndex"`

	CreatedAt time.Time
}

// Membership ties a user to a tenant with a role and, optionally, an
// employee record for self-service.
type Membership struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_memberships_tenant_user"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_memberships_tenant_user"`

	Role       string     `gorm:"type:varchar(20);not null"`
	EmployeeID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
}
