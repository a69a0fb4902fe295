package events

import "time"

const LeaveLifecycleTopic = "hr.leave.lifecycle.v1"

const (
	EventLeaveRequested = "leave.requested"
	EventLeaveApproved  = "leave.approved"
	EventLeaveRejected  = "leave.rejected"
	EventLeaveCancelled = "leave.cancelled"
)

// LeaveLifecycleEvent is published for every accepted leave request
// transition, keyed by the request id so consumers see transitions in order.
type LeaveLifecycleEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	TenantID       string    `json:"tenant_id"`
	EmployeeID     string    `json:"employee_id"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}
