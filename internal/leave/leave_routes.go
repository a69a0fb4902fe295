package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	memberships tenant.MembershipRepository,
	rdb *redis.Client,
) {
	authed := []gin.HandlerFunc{
		middleware.AuthMiddleware(),
		middleware.RequireMembership(memberships),
	}

	leaves := r.Group("/leaves")
	leaves.Use(authed...)
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.ListMine)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
	}

	approvals := r.Group("/approvals")
	approvals.Use(authed...)
	{
		approvals.GET("", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ListPending)
		approvals.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		approvals.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
	}
}
