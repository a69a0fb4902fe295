package audit

import (
	"context"
	"database/sql"
	"encoding/json"

	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is one immutable record of an accepted state transition.
type Entry struct {
	TenantID    uuid.UUID
	ActorUserID uuid.UUID
	Action      string
	EntityType  string
	EntityID    uuid.UUID
	Payload     map[string]any
}

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Record(ctx context.Context, e Entry) error
	ListByTenant(ctx context.Context, tenantID string, limit int) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const recordQuery = `
INSERT INTO audit_log (id, tenant_id, actor_user_id, action, entity_type, entity_id, payload_json, ts)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
`

// Record appends the entry. There is no update or delete path; a failed
// insert must abort the caller's transaction.
func (r *repository) Record(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}

	var actor any
	if e.ActorUserID != uuid.Nil {
		actor = e.ActorUserID.String()
	}

	args := []any{
		uuid.NewString(), e.TenantID.String(), actor,
		e.Action, e.EntityType, e.EntityID.String(), payload,
	}

	if r.tx != nil {
		_, err = r.tx.ExecContext(ctx, recordQuery, args...)
		return err
	}
	return r.db.WithContext(ctx).Exec(recordQuery, args...).Error
}

func (r *repository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("ts DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
