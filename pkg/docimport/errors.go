package docimport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrEmptyDocument = errors.New("document has no extractable content")

const pdfHint = "PDF files need additional processing. Convert the document to DOCX or TXT and upload it again"

// SupportedExtensions lists the extensions accepted by Detect.
var SupportedExtensions = []string{".docx", ".doc", ".txt", ".html", ".htm"}

type UnsupportedFormatError struct {
	FileName  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == ".pdf" {
		return pdfHint
	}
	return fmt.Sprintf("unsupported file format %q: supported formats are %s", e.Extension, strings.Join(SupportedExtensions, ", "))
}

func (e *UnsupportedFormatError) StatusCode() int { return http.StatusBadRequest }

// ParseFailure wraps a reader error for one file. Error() stays user facing,
// the cause is available through errors.Unwrap for logging.
type ParseFailure struct {
	FileName string
	Err      error
}

func (e *ParseFailure) Error() string {
	return fmt.Sprintf("could not extract content from %q", e.FileName)
}

func (e *ParseFailure) Unwrap() error { return e.Err }

func (e *ParseFailure) StatusCode() int { return http.StatusBadRequest }

type BatchTooLargeError struct {
	Limit  int
	Actual int
}

func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("too many files in one import: got %d, the limit is %d", e.Actual, e.Limit)
}

func (e *BatchTooLargeError) StatusCode() int { return http.StatusBadRequest }
