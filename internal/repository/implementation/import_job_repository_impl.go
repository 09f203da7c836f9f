package implementation

import (
	"context"
	"errors"

	"sigma-lms-be/internal/entity"
	"sigma-lms-be/internal/mapper"
	"sigma-lms-be/internal/model"
	"sigma-lms-be/internal/repository/contract"
	"sigma-lms-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ImportJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ImportJobMapper
}

func NewImportJobRepository(db *gorm.DB) contract.ImportJobRepository {
	return &ImportJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewImportJobMapper(),
	}
}

func (r *ImportJobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ImportJobRepositoryImpl) Create(ctx context.Context, job *entity.ImportJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *ImportJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ImportJob, error) {
	var m model.ImportJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ImportJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ImportJob, error) {
	var models []*model.ImportJob
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ImportJobRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ImportJob{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
