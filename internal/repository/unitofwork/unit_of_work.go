package unitofwork

import (
	"context"

	"sigma-lms-be/internal/repository/contract"
)

type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}

// UnitOfWork hands out repositories bound to one connection or transaction.
type UnitOfWork interface {
	// Transaction runs fn with repositories bound to a new transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx UnitOfWork) error) error

	ImportJobRepository() contract.ImportJobRepository
}
