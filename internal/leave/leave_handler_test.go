package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	submitFn      func(ctx context.Context, tctx tenant.Context, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	cancelFn      func(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error)
	approveFn     func(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error)
	rejectFn      func(ctx context.Context, tctx tenant.Context, id, reason string) (leave.LeaveResponse, error)
	getByIDFn     func(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error)
	listMineFn    func(ctx context.Context, tctx tenant.Context, page, limit int) ([]leave.LeaveResponse, int64, error)
	listPendingFn func(ctx context.Context, tctx tenant.Context, page, limit int) ([]leave.LeaveResponse, int64, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, tctx tenant.Context, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, tctx, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, tctx, id)
}
func (f *fakeLeaveService) Approve(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, tctx, id)
}
func (f *fakeLeaveService) Reject(ctx context.Context, tctx tenant.Context, id, reason string) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, tctx, id, reason)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, tctx, id)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, tctx tenant.Context, page, limit int) ([]leave.LeaveResponse, int64, error) {
	return f.listMineFn(ctx, tctx, page, limit)
}
func (f *fakeLeaveService) ListPendingApprovals(ctx context.Context, tctx tenant.Context, page, limit int) ([]leave.LeaveResponse, int64, error) {
	return f.listPendingFn(ctx, tctx, page, limit)
}

func authedTestContext(t *testing.T, w *httptest.ResponseRecorder, role string) (*gin.Context, tenant.Context) {
	t.Helper()

	c, _ := gin.CreateTestContext(w)
	tctx := tenant.Context{
		TenantID:    uuid.New(),
		ActorUserID: uuid.New(),
		EmployeeID:  uuid.New(),
		Role:        tenant.Role(role),
	}
	c.Set("tenant_id", tctx.TenantID.String())
	c.Set("user_id", tctx.ActorUserID.String())
	c.Set("employee_id", tctx.EmployeeID.String())
	c.Set("role", role)
	return c, tctx
}

func TestLeaveHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		typeID := uuid.New().String()
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, tctx tenant.Context, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, typeID, req.LeaveTypeID)
				assert.Equal(t, "2026-03-10", req.DateFrom)
				return leave.LeaveResponse{
					ID:          uuid.New().String(),
					TenantID:    tctx.TenantID.String(),
					EmployeeID:  tctx.EmployeeID.String(),
					LeaveTypeID: req.LeaveTypeID,
					DateFrom:    req.DateFrom,
					DateTo:      req.DateTo,
					Status:      leave.StatusRequested,
				}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, tctx := authedTestContext(t, w, string(tenant.RoleEmployee))
		body := `{"leave_type_id":"` + typeID + `","date_from":"2026-03-10","date_to":"2026-03-11","reason":"family"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, tctx.EmployeeID.String(), got.EmployeeID)
		assert.Equal(t, leave.StatusRequested, got.Status)
	})

	t.Run("negative missing body field", func(t *testing.T) {
		svc := &fakeLeaveService{}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := authedTestContext(t, w, string(tenant.RoleEmployee))
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{"date_from":"2026-03-10"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})

	t.Run("negative insufficient balance maps to 400", func(t *testing.T) {
		typeID := uuid.New().String()
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, tctx tenant.Context, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := authedTestContext(t, w, string(tenant.RoleEmployee))
		body := `{"leave_type_id":"` + typeID + `","date_from":"2026-03-10","date_to":"2026-03-11"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative missing auth context", func(t *testing.T) {
		svc := &fakeLeaveService{}
		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))

		h.Submit(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				return leave.LeaveResponse{ID: id, Status: leave.StatusCancelled}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := authedTestContext(t, w, string(tenant.RoleEmployee))
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative conflict maps to 409", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, tctx tenant.Context, id string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyDecided
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := authedTestContext(t, w, string(tenant.RoleEmployee))
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves/"+leaveID+"/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Cancel(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	t.Run("success passes reason through", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, tctx tenant.Context, id, reason string) (leave.LeaveResponse, error) {
				assert.Equal(t, "coverage gap", reason)
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := authedTestContext(t, w, string(tenant.RoleManager))
		c.Request = httptest.NewRequest(http.MethodPost, "/approvals/"+leaveID+"/reject", strings.NewReader(`{"reason":"coverage gap"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("success without body", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, tctx tenant.Context, id, reason string) (leave.LeaveResponse, error) {
				assert.Empty(t, reason)
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected}, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := authedTestContext(t, w, string(tenant.RoleManager))
		c.Request = httptest.NewRequest(http.MethodPost, "/approvals/"+leaveID+"/reject", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_ListMine(t *testing.T) {
	t.Run("success with pagination meta", func(t *testing.T) {
		svc := &fakeLeaveService{
			listMineFn: func(ctx context.Context, tctx tenant.Context, page, limit int) ([]leave.LeaveResponse, int64, error) {
				assert.Equal(t, 2, page)
				assert.Equal(t, 5, limit)
				return []leave.LeaveResponse{{ID: uuid.New().String(), Status: leave.StatusApproved}}, 11, nil
			},
		}

		h := leave.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := authedTestContext(t, w, string(tenant.RoleEmployee))
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=2&page_size=5", nil)

		h.ListMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})
}
