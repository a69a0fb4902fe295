package middleware

import (
	"errors"
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"
	"go-leave/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantContext assembles the tenant.Context from the values AuthMiddleware
// (and RequireMembership) left behind. Handlers call it once and pass the
// result down explicitly; services never read ambient state.
func TenantContext(c *gin.Context) (tenant.Context, error) {
	tenantID, err := uuid.Parse(c.GetString(KeyTenantID))
	if err != nil {
		return tenant.Context{}, apperror.ErrUnauthorized
	}
	userID, err := uuid.Parse(c.GetString(KeyUserID))
	if err != nil {
		return tenant.Context{}, apperror.ErrUnauthorized
	}

	tctx := tenant.Context{
		TenantID:    tenantID,
		ActorUserID: userID,
		Role:        tenant.Role(c.GetString(KeyRole)),
	}

	if raw := c.GetString(KeyEmployeeID); raw != "" {
		if employeeID, err := uuid.Parse(raw); err == nil {
			tctx.EmployeeID = employeeID
		}
	}

	if err := tctx.Validate(); err != nil {
		return tenant.Context{}, err
	}
	return tctx, nil
}

// RequireMembership re-checks the token's tenant claim against the
// memberships table and overrides role and employee_id with the stored row.
// A revoked membership locks the user out even while their token is live.
func RequireMembership(memberships tenant.MembershipRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetString(KeyTenantID)
		userID := c.GetString(KeyUserID)

		m, err := memberships.FindByUserAndTenant(c.Request.Context(), tenantID, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "No active membership in this tenant", nil)
			} else {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Membership lookup failed", nil)
			}
			c.Abort()
			return
		}

		c.Set(KeyRole, m.Role)
		if m.EmployeeID != nil {
			c.Set(KeyEmployeeID, m.EmployeeID.String())
		} else {
			c.Set(KeyEmployeeID, "")
		}

		c.Next()
	}
}
