package dto

import (
	"time"

	"github.com/google/uuid"
)

const LessonTypeText = "text"

// Failure reasons reported per file.
const (
	FailureUnsupportedFormat = "unsupported_format"
	FailureParse             = "parse_failure"
	FailureEmptyDocument     = "empty_document"
)

type LessonDraft struct {
	Id         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OrderIndex int       `json:"order_index"`
}

type FileAnalysis struct {
	FileName    string `json:"fileName"`
	Title       string `json:"title"`
	WordCount   int    `json:"wordCount"`
	ContentType string `json:"contentType"`
}

type FileFailure struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
	Error    string `json:"error"`
}

// ImportCourseResponse is returned as is, not wrapped in BaseResponse, so
// that clients of the import endpoint see a flat object.
type ImportCourseResponse struct {
	Success       bool           `json:"success"`
	CourseTitle   string         `json:"courseTitle"`
	Lessons       []LessonDraft  `json:"lessons"`
	SectionsCount int            `json:"sectionsCount"`
	Analysis      []FileAnalysis `json:"analysis"`
	Failures      []FileFailure  `json:"failures"`
}

// ImportCompletedMessage travels on the in-process bus to the audit consumer.
type ImportCompletedMessage struct {
	UserId        uuid.UUID      `json:"user_id"`
	CourseTitle   string         `json:"course_title"`
	FileCount     int            `json:"file_count"`
	LessonCount   int            `json:"lesson_count"`
	SectionsCount int            `json:"sections_count"`
	Analysis      []FileAnalysis `json:"analysis"`
	Failures      []FileFailure  `json:"failures"`
	CompletedAt   time.Time      `json:"completed_at"`
}

type ImportHistoryRequest struct {
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
	Status string `query:"status" validate:"omitempty,oneof=succeeded partial failed"`
}

type ImportJobResponse struct {
	Id            uuid.UUID      `json:"id"`
	CourseTitle   string         `json:"course_title"`
	Status        string         `json:"status"`
	FileCount     int            `json:"file_count"`
	LessonCount   int            `json:"lesson_count"`
	SectionsCount int            `json:"sections_count"`
	Analysis      []FileAnalysis `json:"analysis"`
	Failures      []FileFailure  `json:"failures"`
	CreatedAt     time.Time      `json:"created_at"`
}

type ImportHistoryResponse struct {
	Items  []ImportJobResponse `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}
