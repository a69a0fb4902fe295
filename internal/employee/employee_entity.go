package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:ix_employees_tenant_name"`

	Name   string  `gorm:"type:varchar(255);not null;index:ix_employees_tenant_name"`
	Email  *string `gorm:"type:varchar(255)"`
	Active bool    `gorm:"not null;default:true"`

	// ShiftID selects which leave policies apply to the employee.
	ShiftID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
