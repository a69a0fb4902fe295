package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-leave/internal/audit"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/policy"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, tctx tenant.Context, req SubmitLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, tctx tenant.Context, id string) (LeaveResponse, error)
	Approve(ctx context.Context, tctx tenant.Context, id string) (LeaveResponse, error)
	Reject(ctx context.Context, tctx tenant.Context, id, reason string) (LeaveResponse, error)
	GetByID(ctx context.Context, tctx tenant.Context, id string) (LeaveResponse, error)
	ListMine(ctx context.Context, tctx tenant.Context, page, limit int) ([]LeaveResponse, int64, error)
	ListPendingApprovals(ctx context.Context, tctx tenant.Context, page, limit int) ([]LeaveResponse, int64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	audits audit.Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, audits audit.Repository, outbox kafka.OutboxRepository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, audits: audits, outbox: outbox, rdb: rdb, logger: l}
}

func (s *service) Submit(ctx context.Context, tctx tenant.Context, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("tenant_id", tctx.TenantID.String()),
		zap.String("actor_id", tctx.ActorUserID.String()),
		zap.String("date_from", req.DateFrom),
		zap.String("date_to", req.DateTo),
	)

	if err := tctx.Validate(); err != nil {
		return LeaveResponse{}, err
	}
	if tctx.EmployeeID == uuid.Nil {
		return LeaveResponse{}, leaveerrors.ErrEmployeeProfileRequired
	}
	typeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidTypeID
	}
	dateFrom, err := parseDate(req.DateFrom)
	if err != nil {
		return LeaveResponse{}, err
	}
	dateTo, err := parseDate(req.DateTo)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	if err := tenant.ApplySessionContext(ctx, tx, tctx); err != nil {
		return LeaveResponse{}, err
	}
	qtx := s.repo.WithTx(tx)

	shiftID, err := qtx.FindEmployeeShift(ctx, tctx.TenantID.String(), tctx.EmployeeID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return LeaveResponse{}, leaveerrors.ErrEmployeeProfileRequired
	}
	if err != nil {
		s.logger.Error("submit leave employee lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if shiftID == nil {
		return LeaveResponse{}, leaveerrors.ErrNoShiftAssigned
	}

	pol, err := qtx.FindPolicyForUpdate(ctx, tctx.TenantID.String(), shiftID.String(), typeID.String(), dateFrom, dateTo)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Warn("submit leave no applicable policy",
			zap.String("tenant_id", tctx.TenantID.String()),
			zap.String("leave_type_id", typeID.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrPolicyNotApplicable
	}
	if err != nil {
		s.logger.Error("submit leave policy lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	minutes := req.Minutes
	switch pol.Unit {
	case policy.UnitHours:
		if minutes == nil || *minutes <= 0 {
			return LeaveResponse{}, leaveerrors.ErrInvalidMinutes
		}
		if !dateFrom.Equal(dateTo) {
			return LeaveResponse{}, leaveerrors.ErrHoursSingleDay
		}
	default:
		// Day pools ignore minutes entirely.
		minutes = nil
	}
	if dateFrom.After(dateTo) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	requested := policy.AmountFor(pol.Unit, dateFrom, dateTo, minutes)

	active, err := qtx.ListActiveByPolicy(ctx, tctx.TenantID.String(), tctx.EmployeeID.String(), pol.ID.String())
	if err != nil {
		s.logger.Error("submit leave balance query failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	used := decimal.Zero
	for _, a := range active {
		used = used.Add(policy.AmountFor(pol.Unit, a.DateFrom, a.DateTo, a.Minutes))
	}
	if used.Add(requested).GreaterThan(pol.Amount) {
		s.logger.Warn("submit leave insufficient balance",
			zap.String("policy_id", pol.ID.String()),
			zap.String("used", used.String()),
			zap.String("requested", requested.String()),
			zap.String("total", pol.Amount.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, tctx.TenantID.String(), tctx.EmployeeID.String(), pol.ID.String(), dateFrom, dateTo)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &LeaveRequest{
		ID:            uuid.New(),
		TenantID:      tctx.TenantID,
		EmployeeID:    tctx.EmployeeID,
		LeaveTypeID:   typeID,
		LeavePolicyID: pol.ID,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		Minutes:       minutes,
		Reason:        req.Reason,
		Status:        StatusRequested,
		CreatedAt:     time.Now().UTC(),
	}
	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapStorageConflict(err)
	}

	if err := s.recordTransition(ctx, tx, tctx, l, audit.ActionLeaveRequested, events.EventLeaveRequested, nil); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, mapStorageConflict(err)
	}
	s.invalidateBalances(ctx, tctx.TenantID, l.EmployeeID)

	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("policy_id", pol.ID.String()),
		zap.String("requested", requested.String()),
	)
	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, tctx tenant.Context, id string) (LeaveResponse, error) {
	return s.transition(ctx, tctx, id, StatusCancelled, "")
}

func (s *service) Approve(ctx context.Context, tctx tenant.Context, id string) (LeaveResponse, error) {
	return s.transition(ctx, tctx, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, tctx tenant.Context, id, reason string) (LeaveResponse, error) {
	return s.transition(ctx, tctx, id, StatusRejected, reason)
}

func (s *service) transition(ctx context.Context, tctx tenant.Context, id, targetStatus, decisionReason string) (LeaveResponse, error) {
	s.logger.Debug("leave transition requested",
		zap.String("leave_id", id),
		zap.String("tenant_id", tctx.TenantID.String()),
		zap.String("target_status", targetStatus),
	)

	if err := tctx.Validate(); err != nil {
		return LeaveResponse{}, err
	}
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave transition begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	if err := tenant.ApplySessionContext(ctx, tx, tctx); err != nil {
		return LeaveResponse{}, err
	}
	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndTenant(ctx, tctx.TenantID.String(), leaveID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	if err != nil {
		s.logger.Error("leave transition fetch failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if IsTerminal(l.Status) {
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	var approver *uuid.UUID
	var action, eventType string
	switch targetStatus {
	case StatusCancelled:
		if tctx.EmployeeID == uuid.Nil || tctx.EmployeeID != l.EmployeeID {
			return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
		}
		action, eventType = audit.ActionLeaveCancelled, events.EventLeaveCancelled
	case StatusApproved:
		if !tctx.Role.CanApproveLeaves() {
			return LeaveResponse{}, leaveerrors.ErrApproverRoleRequired
		}
		approver = &tctx.ActorUserID
		action, eventType = audit.ActionLeaveApproved, events.EventLeaveApproved
	case StatusRejected:
		if !tctx.Role.CanApproveLeaves() {
			return LeaveResponse{}, leaveerrors.ErrApproverRoleRequired
		}
		approver = &tctx.ActorUserID
		action, eventType = audit.ActionLeaveRejected, events.EventLeaveRejected
	}

	now := time.Now().UTC()
	ok, err := qtx.UpdateStatusIf(ctx, tctx.TenantID.String(), leaveID.String(), StatusRequested, targetStatus, approver, now)
	if err != nil {
		s.logger.Error("leave transition update failed", zap.Error(err))
		return LeaveResponse{}, mapStorageConflict(err)
	}
	if !ok {
		// Row exists (fetched above) but the guard lost: already decided
		// or cancelled, possibly by a concurrent actor.
		s.logger.Warn("leave transition guard failed",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
			zap.String("target_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyDecided
	}

	l.Status = targetStatus
	l.ApproverUserID = approver
	l.DecidedAt = &now

	var extra map[string]any
	if decisionReason != "" {
		extra = map[string]any{"decision_reason": decisionReason}
	}
	if err := s.recordTransition(ctx, tx, tctx, l, action, eventType, extra); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave transition commit failed", zap.Error(err))
		return LeaveResponse{}, mapStorageConflict(err)
	}
	s.invalidateBalances(ctx, tctx.TenantID, l.EmployeeID)

	s.logger.Info("leave transition success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

// recordTransition writes the audit entry and the outbox event inside the
// caller's transaction, so a transition either lands with its full trail or
// not at all.
func (s *service) recordTransition(ctx context.Context, tx *sql.Tx, tctx tenant.Context, l *LeaveRequest, action, eventType string, extra map[string]any) error {
	payload := map[string]any{
		"employee_id":     l.EmployeeID.String(),
		"type_id":         l.LeaveTypeID.String(),
		"leave_policy_id": l.LeavePolicyID.String(),
		"date_from":       l.DateFrom.Format("2006-01-02"),
		"date_to":         l.DateTo.Format("2006-01-02"),
		"status":          l.Status,
	}
	if l.Minutes != nil {
		payload["minutes"] = *l.Minutes
	}
	if l.Reason != "" {
		payload["reason"] = l.Reason
	}
	for k, v := range extra {
		payload[k] = v
	}

	err := s.audits.WithTx(tx).Record(ctx, audit.Entry{
		TenantID:    tctx.TenantID,
		ActorUserID: tctx.ActorUserID,
		Action:      action,
		EntityType:  "leave_request",
		EntityID:    l.ID,
		Payload:     payload,
	})
	if err != nil {
		s.logger.Error("audit record failed", zap.String("action", action), zap.Error(err))
		return err
	}

	event := events.LeaveLifecycleEvent{
		EventType:      eventType,
		LeaveRequestID: l.ID.String(),
		TenantID:       l.TenantID.String(),
		EmployeeID:     l.EmployeeID.String(),
		Status:         l.Status,
		OccurredAt:     time.Now().UTC(),
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		TenantID:      l.TenantID.String(),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       raw,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("outbox write failed", zap.String("event_type", eventType), zap.Error(err))
	}
	return err
}

func (s *service) GetByID(ctx context.Context, tctx tenant.Context, id string) (LeaveResponse, error) {
	if err := tctx.Validate(); err != nil {
		return LeaveResponse{}, err
	}
	leaveID, err := uuid.Parse(id)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDAndTenant(ctx, tctx.TenantID.String(), leaveID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	if err != nil {
		return LeaveResponse{}, err
	}
	// Visible to the owner and to anyone who can decide it.
	if l.EmployeeID != tctx.EmployeeID && !tctx.Role.CanApproveLeaves() {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, tctx tenant.Context, page, limit int) ([]LeaveResponse, int64, error) {
	if err := tctx.Validate(); err != nil {
		return nil, 0, err
	}
	if tctx.EmployeeID == uuid.Nil {
		return nil, 0, leaveerrors.ErrEmployeeProfileRequired
	}

	leaves, total, err := s.repo.ListByEmployee(ctx, tctx.TenantID.String(), tctx.EmployeeID.String(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) ListPendingApprovals(ctx context.Context, tctx tenant.Context, page, limit int) ([]LeaveResponse, int64, error) {
	if err := tctx.Validate(); err != nil {
		return nil, 0, err
	}
	if !tctx.Role.CanApproveLeaves() {
		return nil, 0, leaveerrors.ErrApproverRoleRequired
	}

	leaves, total, err := s.repo.ListPendingByTenant(ctx, tctx.TenantID.String(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

// invalidateBalances drops the cached dashboard after a committed
// transition. Best effort, the cache is advisory.
func (s *service) invalidateBalances(ctx context.Context, tenantID, employeeID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	key := policy.BalanceCacheKey(tenantID.String(), employeeID.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("balance cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

// mapStorageConflict turns Postgres unique and serialization failures into
// the conflict the API contract promises instead of a bare 500.
func mapStorageConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "40001", "23P01":
			return leaveerrors.ErrConcurrentUpdate
		}
	}
	return err
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}
