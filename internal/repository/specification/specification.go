package specification

import "gorm.io/gorm"

// Specification narrows, orders or pages a repository query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
