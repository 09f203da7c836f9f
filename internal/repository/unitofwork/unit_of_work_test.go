package unitofwork

import (
	"context"
	"errors"
	"testing"

	"sigma-lms-be/internal/entity"
	"sigma-lms-be/internal/model"
	"sigma-lms-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction(t *testing.T) {
	db, err := database.Open(database.DriverSqlite, ":memory:", database.Options{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ImportJob{}))

	ctx := context.Background()
	uow := NewRepositoryFactory(db).NewUnitOfWork(ctx)

	err = uow.Transaction(ctx, func(tx UnitOfWork) error {
		return tx.ImportJobRepository().Create(ctx, &entity.ImportJob{UserId: uuid.New(), Status: entity.ImportJobSucceeded})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = uow.Transaction(ctx, func(tx UnitOfWork) error {
		if err := tx.ImportJobRepository().Create(ctx, &entity.ImportJob{UserId: uuid.New(), Status: entity.ImportJobFailed}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := uow.ImportJobRepository().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
