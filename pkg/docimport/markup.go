package docimport

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

var anyTag = regexp.MustCompile(`<[^>]*>`)

// PlainText strips markup from an HTML fragment and decodes entities.
func PlainText(fragment string) string {
	return html.UnescapeString(anyTag.ReplaceAllString(fragment, ""))
}

// TextLength is the rune count of PlainText(fragment).
func TextLength(fragment string) int {
	return utf8.RuneCountInString(PlainText(fragment))
}

// WordCount counts whitespace separated words of the fragment's text.
func WordCount(fragment string) int {
	return len(strings.Fields(html.UnescapeString(anyTag.ReplaceAllString(fragment, " "))))
}
