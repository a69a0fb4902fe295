package tenant_test

import (
	"context"
	"testing"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/tenant"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestApplySessionContext(t *testing.T) {
	t.Run("success sets both settings transaction-locally", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		tctx := tenant.Context{
			TenantID:    uuid.New(),
			ActorUserID: uuid.New(),
			Role:        tenant.RoleEmployee,
		}

		mock.ExpectBegin()
		mock.ExpectExec("set_config").
			WithArgs(tctx.TenantID.String(), tctx.ActorUserID.String()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.BeginTx(context.Background(), nil)
		assert.NoError(t, err)
		defer tx.Rollback()

		assert.NoError(t, tenant.ApplySessionContext(context.Background(), tx, tctx))
		assert.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative incomplete context never touches the db", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		tx, err := db.BeginTx(context.Background(), nil)
		assert.NoError(t, err)
		defer tx.Rollback()

		err = tenant.ApplySessionContext(context.Background(), tx, tenant.Context{})
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}
