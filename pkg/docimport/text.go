package docimport

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	blankLine  = regexp.MustCompile(`\n[ \t\f\v]*\n\s*`)
	textEscape = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
	)
)

// decodeText returns data as UTF-8. Byte streams that are not valid UTF-8
// are treated as Windows-1251, the usual encoding of legacy Cyrillic files.
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(decoded)
}

// textToHTML splits plain text into paragraphs on blank lines. Single line
// breaks inside a paragraph become <br>.
func textToHTML(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var sb strings.Builder
	for _, para := range blankLine.Split(text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(strings.ReplaceAll(textEscape.Replace(para), "\n", "<br>"))
		sb.WriteString("</p>")
	}
	return sb.String()
}

func readText(data []byte, fileName string) CanonicalDocument {
	return CanonicalDocument{
		SuggestedTitle: fileStem(fileName),
		HTML:           textToHTML(decodeText(data)),
	}
}

func fileStem(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
