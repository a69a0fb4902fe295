package policy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	UnitDays  = "DAYS"
	UnitHours = "HOURS"
)

type LeaveType struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_types_tenant_code"`

	Code string `gorm:"type:varchar(32);not null;uniqueIndex:uq_leave_types_tenant_code"`
	Name string `gorm:"type:varchar(128);not null"`

	Paid             bool `gorm:"not null;default:false"`
	RequiresApproval bool `gorm:"not null;default:true"`
	CountsAsWorked   bool `gorm:"not null;default:false"`
}

func (LeaveType) TableName() string { return "leave_types" }

// LeavePolicy is the allowance pool ("bolsa") employees draw from: a total
// amount in DAYS or HOURS, valid for a date window, attached to a shift.
type LeavePolicy struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index:ix_shift_leave_policies_tenant_shift"`
	ShiftID     uuid.UUID `gorm:"type:uuid;not null;index:ix_shift_leave_policies_tenant_shift"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	Name   string          `gorm:"type:varchar(128);not null"`
	Amount decimal.Decimal `gorm:"type:numeric(8,2);not null"`
	Unit   string          `gorm:"type:leave_policy_unit;not null"`

	ValidFrom time.Time `gorm:"type:date;not null"`
	ValidTo   time.Time `gorm:"type:date;not null"`

	CreatedAt time.Time
}

func (LeavePolicy) TableName() string { return "shift_leave_policies" }

// WindowContains reports whether [from, to] lies inside the validity window.
func (p LeavePolicy) WindowContains(from, to time.Time) bool {
	return !from.Before(p.ValidFrom) && !to.After(p.ValidTo)
}
