package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sigma-lms-be/internal/dto"
)

// statusError is a client facing error with a fixed HTTP status.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string   { return e.message }
func (e *statusError) StatusCode() int { return e.code }

var (
	ErrNoFiles        error = &statusError{code: http.StatusBadRequest, message: "no files uploaded"}
	ErrRateLimited    error = &statusError{code: http.StatusTooManyRequests, message: "too many import requests, try again later"}
	ErrImportNotFound error = &statusError{code: http.StatusNotFound, message: "import not found"}
	// ErrInternal carries no status so the error handler answers 500 with a
	// generic message.
	ErrInternal = errors.New("internal error")
)

// ImportFailedError is returned when none of the uploaded files produced a
// lesson.
type ImportFailedError struct {
	Failures []dto.FileFailure
}

func (e *ImportFailedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %s", f.FileName, f.Error)
	}
	return "none of the uploaded files could be imported (" + strings.Join(parts, "; ") + ")"
}

func (e *ImportFailedError) StatusCode() int { return http.StatusBadRequest }
