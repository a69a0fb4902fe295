package leave

import "time"

type SubmitLeaveRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	DateFrom    string `json:"date_from" binding:"required"`
	DateTo      string `json:"date_to" binding:"required"`
	Minutes     *int   `json:"minutes"`
	Reason      string `json:"reason"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason"`
}

type LeaveResponse struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenant_id"`
	EmployeeID     string  `json:"employee_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	LeavePolicyID  string  `json:"leave_policy_id"`
	DateFrom       string  `json:"date_from"`
	DateTo         string  `json:"date_to"`
	Minutes        *int    `json:"minutes,omitempty"`
	Reason         string  `json:"reason,omitempty"`
	Status         string  `json:"status"`
	ApproverUserID *string `json:"approver_user_id,omitempty"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:            l.ID.String(),
		TenantID:      l.TenantID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveTypeID:   l.LeaveTypeID.String(),
		LeavePolicyID: l.LeavePolicyID.String(),
		DateFrom:      l.DateFrom.Format("2006-01-02"),
		DateTo:        l.DateTo.Format("2006-01-02"),
		Minutes:       l.Minutes,
		Reason:        l.Reason,
		Status:        l.Status,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
	if l.ApproverUserID != nil {
		v := l.ApproverUserID.String()
		resp.ApproverUserID = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
