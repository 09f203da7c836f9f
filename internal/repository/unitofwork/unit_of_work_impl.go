package unitofwork

import (
	"context"

	"sigma-lms-be/internal/repository/contract"
	"sigma-lms-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) Transaction(ctx context.Context, fn func(tx UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UnitOfWorkImpl{db: tx})
	})
}

func (u *UnitOfWorkImpl) ImportJobRepository() contract.ImportJobRepository {
	return implementation.NewImportJobRepository(u.db)
}
