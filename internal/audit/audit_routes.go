package audit

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/tenant"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	memberships tenant.MembershipRepository,
) {
	trail := r.Group("/audit")
	trail.Use(middleware.AuthMiddleware(), middleware.RequireMembership(memberships))
	{
		trail.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.List)
	}
}
