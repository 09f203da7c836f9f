// Package segment splits a canonical document into titled sections of
// bounded size.
package segment

import (
	"fmt"
	"io"
	"strings"

	"sigma-lms-be/pkg/docimport"

	"golang.org/x/net/html"
)

const (
	DefaultMaxChars = 6000
	// OverflowFactor bounds heading-delimited sections at maxChars*OverflowFactor.
	OverflowFactor = 1.6
	DefaultTitle   = "Section"
)

type Section struct {
	Title string `json:"title"`
	HTML  string `json:"html"`
}

// unit is one top-level element (or text run) of the fragment, kept as the
// exact source bytes. heading is set when the unit is or contains an h1-h3.
type unit struct {
	raw     string
	heading bool
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "source": true, "track": true, "wbr": true,
}

var headingTags = map[string]bool{"h1": true, "h2": true, "h3": true}

// Split cuts doc into sections. Documents with h1-h3 headings are split at
// each unit holding a heading, titled by its first heading; others are packed into numbered sections of at most maxChars
// characters. A non-positive maxChars uses DefaultMaxChars. Units are never
// cut, so a single oversized unit forms its own section.
func Split(doc docimport.CanonicalDocument, maxChars int) []Section {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	units := topLevelUnits(doc.HTML)
	for _, u := range units {
		if u.heading {
			return splitByHeadings(units, int(float64(maxChars)*OverflowFactor))
		}
	}
	return splitBySize(units, maxChars)
}

func splitByHeadings(units []unit, limit int) []Section {
	var (
		sections []Section
		buf      strings.Builder
		bufLen   int
		title    = DefaultTitle
		// body is set once a non-heading unit with text follows the title,
		// so a heading is never flushed apart from its content.
		body bool
	)
	flush := func() {
		if strings.TrimSpace(buf.String()) != "" {
			sections = append(sections, Section{Title: title, HTML: buf.String()})
		}
		buf.Reset()
		bufLen = 0
		body = false
	}

	for _, u := range units {
		n := docimport.TextLength(u.raw)
		if u.heading {
			flush()
			title = headingTitle(u.raw)
		} else if body && bufLen+n > limit {
			flush()
		}
		buf.WriteString(u.raw)
		bufLen += n
		if !u.heading && n > 0 {
			body = true
		}
	}
	flush()
	return sections
}

func splitBySize(units []unit, maxChars int) []Section {
	var (
		sections []Section
		buf      strings.Builder
		bufLen   int
	)
	flush := func() {
		sections = append(sections, Section{
			Title: fmt.Sprintf("%s %d", DefaultTitle, len(sections)+1),
			HTML:  buf.String(),
		})
		buf.Reset()
		bufLen = 0
	}

	for _, u := range units {
		n := docimport.TextLength(u.raw)
		if bufLen+n > maxChars && strings.TrimSpace(buf.String()) != "" {
			flush()
		}
		buf.WriteString(u.raw)
		bufLen += n
	}
	if strings.TrimSpace(buf.String()) != "" {
		flush()
	}
	return sections
}

// headingTitle returns the plain text of the first h1-h3 in raw.
func headingTitle(raw string) string {
	var (
		text  strings.Builder
		depth int
	)
	z := html.NewTokenizer(strings.NewReader(raw))
loop:
	for {
		switch z.Next() {
		case html.ErrorToken:
			break loop
		case html.StartTagToken:
			name, _ := z.TagName()
			if headingTags[string(name)] {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if headingTags[string(name)] && depth > 0 {
				depth--
				if depth == 0 {
					break loop
				}
			}
		case html.TextToken:
			if depth > 0 {
				text.Write(z.Text())
			}
		}
	}

	title := strings.Join(strings.Fields(text.String()), " ")
	if title == "" {
		return DefaultTitle
	}
	return title
}

// topLevelUnits tokenizes the fragment and groups tokens into top-level
// elements by tracking nesting depth. Whitespace between elements is attached
// to the following unit.
func topLevelUnits(fragment string) []unit {
	var (
		units []unit
		cur   strings.Builder
		depth int
		head  bool
		open  bool
	)
	emit := func() {
		units = append(units, unit{raw: cur.String(), heading: head})
		cur.Reset()
		head, open = false, false
	}

	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				cur.Write(z.Raw())
			}
			break
		}
		raw := z.Raw()

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if depth == 0 && !open {
				open = true
			}
			if open && headingTags[tag] {
				head = true
			}
			cur.Write(raw)
			if !voidElements[tag] {
				depth++
			}
		case html.EndTagToken:
			cur.Write(raw)
			if depth > 0 {
				depth--
			}
		case html.SelfClosingTagToken:
			if depth == 0 && !open {
				open = true
			}
			cur.Write(raw)
		case html.TextToken:
			cur.Write(raw)
			if depth == 0 && strings.TrimSpace(string(raw)) != "" {
				open = true
			}
		default:
			cur.Write(raw)
		}

		if depth == 0 && open {
			emit()
		}
	}

	if cur.Len() > 0 {
		units = append(units, unit{raw: cur.String(), heading: head})
	}
	return units
}
