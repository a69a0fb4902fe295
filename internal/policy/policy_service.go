package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/employee"
	policyerrors "go-leave/internal/policy/errors"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const balanceCacheTTL = 5 * time.Minute

// BalanceCacheKey is shared with the lifecycle engine, which invalidates the
// entry on every accepted transition.
func BalanceCacheKey(tenantID, employeeID string) string {
	return fmt.Sprintf("leave:balances:%s:%s", tenantID, employeeID)
}

//go:generate mockgen -source=policy_service.go -destination=mock/policy_service_mock.go -package=mock
type Service interface {
	Balances(ctx context.Context, tctx tenant.Context) ([]PolicyBalanceResponse, error)
}

type service struct {
	repo      Repository
	employees employee.Repository
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
}

func NewService(repo Repository, employees employee.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("policy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("policy.service")
	}
	return &service{
		repo:      repo,
		employees: employees,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

// Balances returns the dashboard view of every policy active today for the
// actor's shift: total, approved, pending and remaining amounts. The figures
// here are advisory; submission always recomputes inside its own transaction.
func (s *service) Balances(ctx context.Context, tctx tenant.Context) ([]PolicyBalanceResponse, error) {
	if err := tctx.Validate(); err != nil {
		return nil, err
	}
	if tctx.EmployeeID == uuid.Nil {
		return nil, apperror.ErrForbidden
	}

	cacheKey := BalanceCacheKey(tctx.TenantID.String(), tctx.EmployeeID.String())
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []PolicyBalanceResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.computeBalances(ctx, tctx)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, balanceCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]PolicyBalanceResponse), nil
}

func (s *service) computeBalances(ctx context.Context, tctx tenant.Context) ([]PolicyBalanceResponse, error) {
	emp, err := s.employees.FindByIDAndTenant(ctx, tctx.TenantID.String(), tctx.EmployeeID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policyerrors.ErrEmployeeNotFound
		}
		s.logger.Error("balances employee lookup failed", zap.Error(err))
		return nil, err
	}
	if emp.ShiftID == nil {
		return []PolicyBalanceResponse{}, nil
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	policies, err := s.repo.ListActiveForShift(ctx, tctx.TenantID.String(), emp.ShiftID.String(), today)
	if err != nil {
		s.logger.Error("balances policy lookup failed", zap.Error(err))
		return nil, err
	}
	if len(policies) == 0 {
		return []PolicyBalanceResponse{}, nil
	}

	policyIDs := make([]string, len(policies))
	for i, p := range policies {
		policyIDs[i] = p.ID.String()
	}

	rows, err := s.repo.ActiveRequestsForPolicies(ctx, tctx.TenantID.String(), tctx.EmployeeID.String(), policyIDs)
	if err != nil {
		s.logger.Error("balances consumption lookup failed", zap.Error(err))
		return nil, err
	}

	type totals struct{ approved, pending decimal.Decimal }
	consumed := make(map[string]*totals, len(policies))
	byID := make(map[string]LeavePolicy, len(policies))
	for _, p := range policies {
		consumed[p.ID.String()] = &totals{}
		byID[p.ID.String()] = p
	}
	for _, row := range rows {
		p, ok := byID[row.LeavePolicyID.String()]
		if !ok {
			continue
		}
		amount := AmountFor(p.Unit, row.DateFrom, row.DateTo, row.Minutes)
		t := consumed[p.ID.String()]
		switch row.Status {
		case "APPROVED":
			t.approved = t.approved.Add(amount)
		case "REQUESTED":
			t.pending = t.pending.Add(amount)
		}
	}

	resp := make([]PolicyBalanceResponse, 0, len(policies))
	for _, p := range policies {
		t := consumed[p.ID.String()]
		used := t.approved.Add(t.pending)
		remaining := p.Amount.Sub(used)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		percent := 0.0
		if p.Amount.IsPositive() {
			percent, _ = remaining.Div(p.Amount).Mul(decimal.NewFromInt(100)).Float64()
			if percent < 0 {
				percent = 0
			}
			if percent > 100 {
				percent = 100
			}
		}

		resp = append(resp, PolicyBalanceResponse{
			PolicyID:         p.ID.String(),
			Name:             p.Name,
			Unit:             p.Unit,
			ValidFrom:        p.ValidFrom.Format("2006-01-02"),
			ValidTo:          p.ValidTo.Format("2006-01-02"),
			Total:            p.Amount.String(),
			Approved:         t.approved.String(),
			Pending:          t.pending.String(),
			Remaining:        remaining.String(),
			RemainingPercent: percent,
		})
	}

	return resp, nil
}
