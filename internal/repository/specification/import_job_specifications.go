package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportJobOwnedByUser struct {
	UserID uuid.UUID
}

func (s ImportJobOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("import_jobs.user_id = ?", s.UserID)
}

// ImportJobWithStatus matches jobs in the given outcome (succeeded, partial,
// failed). An empty status matches all jobs.
type ImportJobWithStatus struct {
	Status string
}

func (s ImportJobWithStatus) Apply(db *gorm.DB) *gorm.DB {
	if s.Status == "" {
		return db
	}
	return db.Where("import_jobs.status = ?", s.Status)
}
