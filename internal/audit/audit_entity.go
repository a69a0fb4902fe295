package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the leave lifecycle. One entry per accepted
// transition, in the same transaction as the transition itself.
const (
	ActionLeaveRequested = "LEAVE_REQUESTED"
	ActionLeaveApproved  = "LEAVE_APPROVED"
	ActionLeaveRejected  = "LEAVE_REJECTED"
	ActionLeaveCancelled = "LEAVE_CANCELLED"
)

type AuditLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index:ix_audit_log_tenant_ts"`

	ActorUserID *uuid.UUID `gorm:"type:uuid"`
	Action      string     `gorm:"type:varchar(128);not null"`
	EntityType  string     `gorm:"type:varchar(64);not null"`
	EntityID    *uuid.UUID `gorm:"type:uuid"`

	PayloadJSON json.RawMessage `gorm:"type:jsonb;column:payload_json"`

	Ts time.Time `gorm:"column:ts;not null;index:ix_audit_log_tenant_ts"`
}

func (AuditLog) TableName() string { return "audit_log" }
