package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCourseImported(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	evt := CourseImported{
		UserID:      "u1",
		CourseTitle: "Lecture",
		LessonCount: 2,
		OccurredAt:  at,
	}

	var e Event = evt
	assert.Equal(t, TypeCourseImported, e.EventType())
	assert.Equal(t, at, e.Timestamp())

	payload := e.Payload()
	assert.Equal(t, "Lecture", payload["course_title"])
	assert.Equal(t, 2, payload["lesson_count"])
	assert.Equal(t, []string{}, payload["failed_files"])
	assert.Equal(t, "2026-03-01T10:00:00Z", payload["occurred_at"])
}
