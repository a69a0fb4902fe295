package tenant

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=membership_repo.go -destination=mock/membership_repo_mock.go -package=mock
type MembershipRepository interface {
	FindByUserAndTenant(ctx context.Context, tenantID, userID string) (*Membership, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) FindByUserAndTenant(ctx context.Context, tenantID, userID string) (*Membership, error) {
	var m Membership
	err := r.db.WithContext(ctx).
		Scopes(Scope(tenantID)).
		First(&m, "user_id = ?", userID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
