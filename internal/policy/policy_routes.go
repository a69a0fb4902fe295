package policy

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
	policies := r.Group("/policies")
	policies.Use(middleware.AuthMiddleware(), middleware.RequireMembership(memberships))
	{
		policies.GET("/balances", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Balances)
	}
}
