package policy

import (
	"context"
	"time"

	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActiveRequestRow is the slice of a leave request the balance calculation
// needs; the lifecycle engine owns the full row.
type ActiveRequestRow struct {
	LeavePolicyID uuid.UUID
	Status        string
	DateFrom      time.Time
	DateTo        time.Time
	Minutes       *int
}

//go:generate mockgen -source=policy_repo.go -destination=mock/policy_repo_mock.go -package=mock
type Repository interface {
	ListActiveForShift(ctx context.Context, tenantID, shiftID string, asOf time.Time) ([]LeavePolicy, error)
	ActiveRequestsForPolicies(ctx context.Context, tenantID, employeeID string, policyIDs []string) ([]ActiveRequestRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActiveForShift(ctx context.Context, tenantID, shiftID string, asOf time.Time) ([]LeavePolicy, error) {
	var policies []LeavePolicy
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("shift_id = ?", shiftID).
		Where("valid_from <= ?", asOf).
		Where("valid_to >= ?", asOf).
		Order("name ASC, created_at ASC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) ActiveRequestsForPolicies(ctx context.Context, tenantID, employeeID string, policyIDs []string) ([]ActiveRequestRow, error) {
	if len(policyIDs) == 0 {
		return nil, nil
	}

	var rows []ActiveRequestRow
	err := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("leave_policy_id, status, date_from, date_to, minutes").
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("leave_policy_id IN ?", policyIDs).
		Where("status IN ?", []string{"REQUESTED", "APPROVED"}).
		Order("created_at ASC").
		Scan(&rows).Error
	return rows, err
}
