package events

import "time"

const TypeCourseImported = "COURSE_IMPORTED"

// CourseImported announces a finished import to downstream services, which
// own course and lesson persistence.
type CourseImported struct {
	UserID        string
	CourseTitle   string
	LessonCount   int
	SectionsCount int
	FailedFiles   []string
	OccurredAt    time.Time
}

func (e CourseImported) EventType() string {
	return TypeCourseImported
}

func (e CourseImported) Payload() map[string]interface{} {
	failed := e.FailedFiles
	if failed == nil {
		failed = []string{}
	}
	return map[string]interface{}{
		"user_id":        e.UserID,
		"course_title":   e.CourseTitle,
		"lesson_count":   e.LessonCount,
		"sections_count": e.SectionsCount,
		"failed_files":   failed,
		"occurred_at":    e.OccurredAt.Format(time.RFC3339),
	}
}

func (e CourseImported) Timestamp() time.Time {
	return e.OccurredAt
}
