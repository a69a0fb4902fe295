package tenant

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Scope restricts a gorm query to one tenant. Every repository query must
// apply it (or carry an explicit tenant_id predicate in raw SQL); the
// database RLS policies are the second line of defense, not the first.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ApplySessionContext sets the transaction-local Postgres settings the
// row-level-security policies key on. Must run first inside every core
// transaction.
func ApplySessionContext(ctx context.Context, tx sqlExecutor, tctx Context) error {
	if err := tctx.Validate(); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"SELECT set_config('app.tenant_id', $1, true), set_config('app.actor_user_id', $2, true)",
		tctx.TenantID.String(), tctx.ActorUserID.String(),
	)
	return err
}
