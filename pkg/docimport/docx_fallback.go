package docimport

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

var (
	fbEmptyParagraph = regexp.MustCompile(`<w:p(?:\s[^>]*)?/>`)
	fbParagraph      = regexp.MustCompile(`(?s)<w:p[\s>].*?</w:p>`)
	fbStyle          = regexp.MustCompile(`<w:pStyle\s+w:val="([^"]*)"`)
	fbRun            = regexp.MustCompile(`(?s)<w:r[\s>].*?</w:r>`)
	fbText           = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	fbBold           = regexp.MustCompile(`<w:b(?:\s+w:val="(?:1|true|on)")?\s*/>`)
	fbItalic         = regexp.MustCompile(`<w:i(?:\s+w:val="(?:1|true|on)")?\s*/>`)
)

// readDocxFallback is a tolerant text-only reader used when the structured
// reader fails. It scans the main document part with regular expressions, so
// malformed XML or undeclared entities do not stop it.
func readDocxFallback(data []byte, fileName string, styles StyleMap) (CanonicalDocument, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return CanonicalDocument{}, fmt.Errorf("open docx archive: %w", err)
	}

	document, err := readZipFile(zr.File, docxDocumentPart)
	if err != nil {
		document, err = findDocumentPart(zr.File)
		if err != nil {
			return CanonicalDocument{}, err
		}
	}

	styleNames := loadStyleNames(zr.File)
	xmlText := fbEmptyParagraph.ReplaceAllString(string(document), "")
	var sb strings.Builder
	for _, para := range fbParagraph.FindAllString(xmlText, -1) {
		var content strings.Builder
		for _, run := range fbRun.FindAllString(para, -1) {
			var text strings.Builder
			for _, m := range fbText.FindAllStringSubmatch(run, -1) {
				text.WriteString(m[1])
			}
			if text.Len() == 0 {
				continue
			}
			s := text.String()
			if fbItalic.MatchString(run) {
				s = "<em>" + s + "</em>"
			}
			if fbBold.MatchString(run) {
				s = "<strong>" + s + "</strong>"
			}
			content.WriteString(s)
		}

		if strings.TrimSpace(PlainText(content.String())) == "" {
			continue
		}

		level := 0
		if m := fbStyle.FindStringSubmatch(para); m != nil {
			level = styles.Level(styleNames[m[1]], m[1])
		}
		if level > 0 {
			fmt.Fprintf(&sb, "<h%d>%s</h%d>", level, content.String(), level)
		} else {
			sb.WriteString("<p>" + content.String() + "</p>")
		}
	}

	return CanonicalDocument{SuggestedTitle: fileStem(fileName), HTML: sb.String()}, nil
}

func findDocumentPart(files []*zip.File) ([]byte, error) {
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f.Name), "/document.xml") {
			return readZipFile(files, f.Name)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", docxDocumentPart)
}
