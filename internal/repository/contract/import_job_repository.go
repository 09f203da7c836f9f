package contract

import (
	"context"

	"sigma-lms-be/internal/entity"
	"sigma-lms-be/internal/repository/specification"
)

type ImportJobRepository interface {
	Create(ctx context.Context, job *entity.ImportJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ImportJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ImportJob, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
