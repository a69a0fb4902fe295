package app

import (
	"database/sql"

	"go-leave/internal/audit"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/policy"
	"go-leave/internal/rbac"
	"go-leave/internal/tenant"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	membershipRepo := tenant.NewMembershipRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	policyRepo := policy.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB, db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	policyService := policy.NewService(policyRepo, employeeRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, auditRepo, outboxRepo, rdb)

	// --- Handlers ---
	policyHandler := policy.NewHandler(policyService)
	auditHandler := audit.NewHandler(auditRepo)
	leaveHandler := leave.NewHandler(leaveService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, membershipRepo, rdb)
		policy.RegisterRoutes(api, policyHandler, rbacService, membershipRepo)
		audit.RegisterRoutes(api, auditHandler, rbacService, membershipRepo)
	}

	return nil
}
