package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusRequested = "REQUESTED"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// LeaveRequest is one employee absence bound to the allowance pool it
// consumes. Only REQUESTED rows ever change status; APPROVED, REJECTED and
// CANCELLED are terminal.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:ix_leave_requests_tenant_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:ix_leave_requests_employee_dates"`

	LeaveTypeID   uuid.UUID `gorm:"type:uuid;not null"`
	LeavePolicyID uuid.UUID `gorm:"type:uuid;not null"`

	DateFrom time.Time `gorm:"type:date;not null;index:ix_leave_requests_employee_dates"`
	DateTo   time.Time `gorm:"type:date;not null;index:ix_leave_requests_employee_dates"`
	// Minutes is set only for HOURS-unit policies.
	Minutes *int   `gorm:"type:int"`
	Reason  string `gorm:"type:text"`

	Status         string     `gorm:"type:varchar(20);not null;default:'REQUESTED';index:ix_leave_requests_tenant_status"`
	ApproverUserID *uuid.UUID `gorm:"type:uuid"`
	DecidedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

// IsTerminal reports whether the status admits no further transitions.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
