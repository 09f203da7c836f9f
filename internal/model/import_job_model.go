package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ImportJob struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	CourseTitle   string         `gorm:"type:varchar(255)"`
	Status        string         `gorm:"type:varchar(20);not null;index"`
	FileCount     int            `gorm:"not null;default:0"`
	LessonCount   int            `gorm:"not null;default:0"`
	SectionsCount int            `gorm:"not null;default:0"`
	Analysis      datatypes.JSON `gorm:"type:jsonb"`
	Failures      datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index"`
}

func (ImportJob) TableName() string {
	return "import_jobs"
}

// BeforeCreate assigns the id in Go so the table works on databases without
// gen_random_uuid().
func (j *ImportJob) BeforeCreate(tx *gorm.DB) error {
	if j.Id == uuid.Nil {
		j.Id = uuid.New()
	}
	return nil
}
