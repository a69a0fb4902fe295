package tenant_test

import (
	"testing"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/tenant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContext_Validate(t *testing.T) {
	valid := tenant.Context{
		TenantID:    uuid.New(),
		ActorUserID: uuid.New(),
		EmployeeID:  uuid.New(),
		Role:        tenant.RoleEmployee,
	}

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("success without employee profile", func(t *testing.T) {
		c := valid
		c.EmployeeID = uuid.Nil
		assert.NoError(t, c.Validate())
	})

	t.Run("negative missing tenant", func(t *testing.T) {
		c := valid
		c.TenantID = uuid.Nil
		assert.ErrorIs(t, c.Validate(), apperror.ErrUnauthorized)
	})

	t.Run("negative missing actor", func(t *testing.T) {
		c := valid
		c.ActorUserID = uuid.Nil
		assert.ErrorIs(t, c.Validate(), apperror.ErrUnauthorized)
	})

	t.Run("negative unknown role", func(t *testing.T) {
		c := valid
		c.Role = tenant.Role("SUPERUSER")
		assert.ErrorIs(t, c.Validate(), apperror.ErrUnauthorized)
	})
}

func TestRole_CanApproveLeaves(t *testing.T) {
	assert.True(t, tenant.RoleOwner.CanApproveLeaves())
	assert.True(t, tenant.RoleAdmin.CanApproveLeaves())
	assert.True(t, tenant.RoleManager.CanApproveLeaves())
	assert.False(t, tenant.RoleEmployee.CanApproveLeaves())
	assert.False(t, tenant.RoleAgency.CanApproveLeaves())
}
