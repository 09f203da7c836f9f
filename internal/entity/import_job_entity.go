package entity

import (
	"time"

	"github.com/google/uuid"
)

type ImportJobStatus string

const (
	ImportJobSucceeded ImportJobStatus = "succeeded"
	ImportJobPartial   ImportJobStatus = "partial"
	ImportJobFailed    ImportJobStatus = "failed"
)

type ImportFileAnalysis struct {
	FileName    string
	Title       string
	WordCount   int
	ContentType string
}

type ImportFileFailure struct {
	FileName string
	Reason   string
	Error    string
}

// ImportJob is the audit record of one course import request.
type ImportJob struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	CourseTitle   string
	Status        ImportJobStatus
	FileCount     int
	LessonCount   int
	SectionsCount int
	Analysis      []ImportFileAnalysis
	Failures      []ImportFileFailure
	CreatedAt     time.Time
}
