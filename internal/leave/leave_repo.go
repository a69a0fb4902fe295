package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-leave/internal/policy"
	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	// Transactional path (raw SQL, honors WithTx).
	FindEmployeeShift(ctx context.Context, tenantID, employeeID string) (*uuid.UUID, error)
	FindPolicyForUpdate(ctx context.Context, tenantID, shiftID, typeID string, from, to time.Time) (*policy.LeavePolicy, error)
	ListActiveByPolicy(ctx context.Context, tenantID, employeeID, policyID string) ([]LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, tenantID, employeeID, policyID string, from, to time.Time) (bool, error)
	Create(ctx context.Context, l *LeaveRequest) error
	FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveRequest, error)
	UpdateStatusIf(ctx context.Context, tenantID, id, expectedStatus, newStatus string, approverUserID *uuid.UUID, decidedAt time.Time) (bool, error)

	// Read path (gorm, outside transactions).
	ListByEmployee(ctx context.Context, tenantID, employeeID string, page, limit int) ([]LeaveRequest, int64, error)
	ListPendingByTenant(ctx context.Context, tenantID string, page, limit int) ([]LeaveRequest, int64, error)
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repository struct {
	gdb *gorm.DB
	db  *sql.DB
	tx  *sql.Tx
}

func NewRepository(gdb *gorm.DB, db *sql.DB) Repository {
	return &repository{gdb: gdb, db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{gdb: r.gdb, db: r.db, tx: tx}
}

func (r *repository) q() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) FindEmployeeShift(ctx context.Context, tenantID, employeeID string) (*uuid.UUID, error) {
	const query = `
SELECT shift_id::text
FROM employees
WHERE tenant_id = $1 AND id = $2 AND active
`
	var shiftID sql.NullString
	err := r.q().QueryRowContext(ctx, query, tenantID, employeeID).Scan(&shiftID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	if !shiftID.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(shiftID.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FindPolicyForUpdate resolves the policy covering [from, to] for the shift
// and type, locking the row so concurrent submissions against the same pool
// serialize on it.
func (r *repository) FindPolicyForUpdate(ctx context.Context, tenantID, shiftID, typeID string, from, to time.Time) (*policy.LeavePolicy, error) {
	const query = `
SELECT id::text, tenant_id::text, shift_id::text, leave_type_id::text,
       name, amount, unit, valid_from, valid_to
FROM shift_leave_policies
WHERE tenant_id = $1 AND shift_id = $2 AND leave_type_id = $3
  AND valid_from <= $4 AND valid_to >= $5
ORDER BY valid_from DESC
LIMIT 1
FOR UPDATE
`
	row := r.q().QueryRowContext(ctx, query, tenantID, shiftID, typeID, from, to)

	var p policy.LeavePolicy
	var id, tenant, shift, leaveType string
	err := row.Scan(&id, &tenant, &shift, &leaveType, &p.Name, &p.Amount, &p.Unit, &p.ValidFrom, &p.ValidTo)
	if err != nil {
		return nil, err
	}
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if p.TenantID, err = uuid.Parse(tenant); err != nil {
		return nil, err
	}
	if p.ShiftID, err = uuid.Parse(shift); err != nil {
		return nil, err
	}
	if p.LeaveTypeID, err = uuid.Parse(leaveType); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListActiveByPolicy returns the employee's REQUESTED and APPROVED rows on
// one policy; the caller sums their consumption.
func (r *repository) ListActiveByPolicy(ctx context.Context, tenantID, employeeID, policyID string) ([]LeaveRequest, error) {
	const query = `
SELECT id::text, status, date_from, date_to, minutes
FROM leave_requests
WHERE tenant_id = $1 AND employee_id = $2 AND leave_policy_id = $3
  AND status IN ($4, $5)
`
	rows, err := r.q().QueryContext(ctx, query, tenantID, employeeID, policyID, StatusRequested, StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []LeaveRequest
	for rows.Next() {
		var l LeaveRequest
		var id string
		var minutes sql.NullInt64
		if err := rows.Scan(&id, &l.Status, &l.DateFrom, &l.DateTo, &minutes); err != nil {
			return nil, err
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if minutes.Valid {
			m := int(minutes.Int64)
			l.Minutes = &m
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, tenantID, employeeID, policyID string, from, to time.Time) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1
	FROM leave_requests
	WHERE tenant_id = $1 AND employee_id = $2 AND leave_policy_id = $3
	  AND status IN ($4, $5)
	  AND date_from <= $6 AND date_to >= $7
)
`
	var exists bool
	err := r.q().QueryRowContext(ctx, query, tenantID, employeeID, policyID,
		StatusRequested, StatusApproved, to, from).Scan(&exists)
	return exists, err
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	const query = `
INSERT INTO leave_requests (
	id, tenant_id, employee_id, leave_type_id, leave_policy_id,
	date_from, date_to, minutes, reason, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
`
	var minutes any
	if l.Minutes != nil {
		minutes = *l.Minutes
	}
	_, err := r.q().ExecContext(ctx, query,
		l.ID.String(), l.TenantID.String(), l.EmployeeID.String(),
		l.LeaveTypeID.String(), l.LeavePolicyID.String(),
		l.DateFrom, l.DateTo, minutes, l.Reason, l.Status,
	)
	return err
}

func (r *repository) FindByIDAndTenant(ctx context.Context, tenantID, id string) (*LeaveRequest, error) {
	const query = `
SELECT id::text, tenant_id::text, employee_id::text, leave_type_id::text,
       leave_policy_id::text, date_from, date_to, minutes, reason, status,
       approver_user_id::text, decided_at, created_at, updated_at
FROM leave_requests
WHERE tenant_id = $1 AND id = $2
`
	row := r.q().QueryRowContext(ctx, query, tenantID, id)

	var l LeaveRequest
	var rid, tid, eid, typeID, policyID string
	var minutes sql.NullInt64
	var approver sql.NullString
	var decidedAt sql.NullTime
	err := row.Scan(&rid, &tid, &eid, &typeID, &policyID,
		&l.DateFrom, &l.DateTo, &minutes, &l.Reason, &l.Status,
		&approver, &decidedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if l.ID, err = uuid.Parse(rid); err != nil {
		return nil, err
	}
	if l.TenantID, err = uuid.Parse(tid); err != nil {
		return nil, err
	}
	if l.EmployeeID, err = uuid.Parse(eid); err != nil {
		return nil, err
	}
	if l.LeaveTypeID, err = uuid.Parse(typeID); err != nil {
		return nil, err
	}
	if l.LeavePolicyID, err = uuid.Parse(policyID); err != nil {
		return nil, err
	}
	if minutes.Valid {
		m := int(minutes.Int64)
		l.Minutes = &m
	}
	if approver.Valid {
		a, err := uuid.Parse(approver.String)
		if err != nil {
			return nil, err
		}
		l.ApproverUserID = &a
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		l.DecidedAt = &t
	}
	return &l, nil
}

// UpdateStatusIf performs the guarded transition: it only succeeds when the
// row still holds expectedStatus. False with nil error means the guard
// failed, the caller decides between not-found and conflict.
func (r *repository) UpdateStatusIf(ctx context.Context, tenantID, id, expectedStatus, newStatus string, approverUserID *uuid.UUID, decidedAt time.Time) (bool, error) {
	const query = `
UPDATE leave_requests
SET status = $1, approver_user_id = $2, decided_at = $3, updated_at = now()
WHERE tenant_id = $4 AND id = $5 AND status = $6
`
	var approver any
	if approverUserID != nil {
		approver = approverUserID.String()
	}
	res, err := r.q().ExecContext(ctx, query, newStatus, approver, decidedAt, tenantID, id, expectedStatus)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *repository) ListByEmployee(ctx context.Context, tenantID, employeeID string, page, limit int) ([]LeaveRequest, int64, error) {
	// Session gives Count and Find a fresh statement each.
	base := r.gdb.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []LeaveRequest
	err := base.
		Order("date_from DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&leaves).Error
	return leaves, total, err
}

func (r *repository) ListPendingByTenant(ctx context.Context, tenantID string, page, limit int) ([]LeaveRequest, int64, error) {
	base := r.gdb.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(tenantID)).
		Where("status = ?", StatusRequested).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leaves []LeaveRequest
	err := base.
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&leaves).Error
	return leaves, total, err
}
