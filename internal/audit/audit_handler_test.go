package audit_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/audit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAuditRepository struct {
	listByTenantFn func(ctx context.Context, tenantID string, limit int) ([]audit.AuditLog, error)
}

func (f *fakeAuditRepository) WithTx(tx *sql.Tx) audit.Repository { return f }

func (f *fakeAuditRepository) Record(ctx context.Context, e audit.Entry) error { return nil }

func (f *fakeAuditRepository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]audit.AuditLog, error) {
	return f.listByTenantFn(ctx, tenantID, limit)
}

func authedContext(w *httptest.ResponseRecorder) (*gin.Context, string) {
	c, _ := gin.CreateTestContext(w)
	tenantID := uuid.New().String()
	c.Set("tenant_id", tenantID)
	c.Set("user_id", uuid.New().String())
	c.Set("role", "ADMIN")
	return c, tenantID
}

func TestAuditHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeAuditRepository{
			listByTenantFn: func(ctx context.Context, tenantID string, limit int) ([]audit.AuditLog, error) {
				assert.Equal(t, 100, limit)
				actor := uuid.New()
				entity := uuid.New()
				return []audit.AuditLog{{
					ID:          uuid.New(),
					TenantID:    uuid.MustParse(tenantID),
					ActorUserID: &actor,
					Action:      audit.ActionLeaveApproved,
					EntityType:  "leave_request",
					EntityID:    &entity,
					PayloadJSON: json.RawMessage(`{"status":"APPROVED"}`),
					Ts:          time.Now().UTC(),
				}}, nil
			},
		}

		h := audit.NewHandler(repo)
		w := httptest.NewRecorder()
		c, _ := authedContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit", nil)

		h.List(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success clamps oversized limit", func(t *testing.T) {
		repo := &fakeAuditRepository{
			listByTenantFn: func(ctx context.Context, tenantID string, limit int) ([]audit.AuditLog, error) {
				assert.Equal(t, 100, limit)
				return nil, nil
			},
		}

		h := audit.NewHandler(repo)
		w := httptest.NewRecorder()
		c, _ := authedContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit?limit=9000", nil)

		h.List(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative repo error maps to 500", func(t *testing.T) {
		repo := &fakeAuditRepository{
			listByTenantFn: func(ctx context.Context, tenantID string, limit int) ([]audit.AuditLog, error) {
				return nil, errors.New("db error")
			},
		}

		h := audit.NewHandler(repo)
		w := httptest.NewRecorder()
		c, _ := authedContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit", nil)

		h.List(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("negative missing auth context", func(t *testing.T) {
		h := audit.NewHandler(&fakeAuditRepository{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/audit", nil)

		h.List(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
