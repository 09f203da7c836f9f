package docimport

import (
	"fmt"
	"path/filepath"
	"strings"

	"sigma-lms-be/internal/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
)

const (
	DefaultMaxFileSize = 20 << 20

	mimePDF  = "application/pdf"
	mimeZip  = "application/zip"
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type Config struct {
	MaxFileSize int64
	StyleMap    StyleMap
	Logger      logger.ILogger
}

// Reader turns uploads into canonical documents. It holds no per-call state
// and is safe for concurrent use.
type Reader struct {
	maxFileSize int64
	styles      StyleMap
	logger      logger.ILogger
}

func NewReader(cfg Config) *Reader {
	r := &Reader{
		maxFileSize: cfg.MaxFileSize,
		styles:      cfg.StyleMap,
		logger:      cfg.Logger,
	}
	if r.maxFileSize <= 0 {
		r.maxFileSize = DefaultMaxFileSize
	}
	if r.styles == nil {
		r.styles = DefaultStyleMap()
	}
	return r
}

// Detect maps a file name to its format by extension.
func Detect(fileName string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".txt":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".docx":
		return FormatDocx, nil
	case ".doc":
		return FormatDoc, nil
	}
	return "", &UnsupportedFormatError{FileName: fileName, Extension: ext}
}

// Read converts one upload into a CanonicalDocument. Format errors are
// *UnsupportedFormatError, reader errors are *ParseFailure.
func (r *Reader) Read(data []byte, fileName string) (CanonicalDocument, error) {
	format, err := Detect(fileName)
	if err != nil {
		return CanonicalDocument{}, err
	}
	if int64(len(data)) > r.maxFileSize {
		return CanonicalDocument{}, &ParseFailure{
			FileName: fileName,
			Err:      fmt.Errorf("file is %d bytes, the limit is %d", len(data), r.maxFileSize),
		}
	}

	sniffed := mimetype.Detect(data)
	if sniffed.Is(mimePDF) {
		return CanonicalDocument{}, &UnsupportedFormatError{FileName: fileName, Extension: ".pdf"}
	}
	if format == FormatDoc && (sniffed.Is(mimeDocx) || sniffed.Is(mimeZip)) {
		format = FormatDocx
	}

	var doc CanonicalDocument
	switch format {
	case FormatTXT:
		doc = readText(data, fileName)
	case FormatHTML:
		doc, err = readHTML(data, fileName)
	case FormatDocx:
		doc, err = r.readDocx(data, fileName)
	case FormatDoc:
		doc = readLegacyDoc(data, fileName)
	}
	if err != nil {
		return CanonicalDocument{}, &ParseFailure{FileName: fileName, Err: err}
	}

	doc.HTML = Canonicalize(doc.HTML)
	return doc, nil
}

// readDocx tries the structured reader and, on failure, retries exactly once
// with the tolerant fallback.
func (r *Reader) readDocx(data []byte, fileName string) (CanonicalDocument, error) {
	doc, err := r.readDocxPrimary(data, fileName)
	if err == nil {
		return doc, nil
	}

	if r.logger != nil {
		r.logger.Warn("DOCIMPORT", "Primary DOCX reader failed, using fallback", map[string]interface{}{
			"file_name": fileName,
			"error":     err.Error(),
		})
	}

	doc, fbErr := readDocxFallback(data, fileName, r.styles)
	if fbErr != nil {
		return CanonicalDocument{}, fmt.Errorf("primary reader: %v; fallback reader: %w", err, fbErr)
	}
	return doc, nil
}
