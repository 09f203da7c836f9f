package segment

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"sigma-lms-be/pkg/docimport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(html string) docimport.CanonicalDocument {
	return docimport.CanonicalDocument{SuggestedTitle: "test", HTML: html}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		maxChars int
		want     []Section
	}{
		{
			name: "empty document",
			html: "",
			want: nil,
		},
		{
			name: "whitespace only",
			html: "\n  \n",
			want: nil,
		},
		{
			name: "split at headings",
			html: "<p>intro</p><h1>A</h1><p>a1</p><h2>B</h2><p>b1</p>",
			want: []Section{
				{Title: "Section", HTML: "<p>intro</p>"},
				{Title: "A", HTML: "<h1>A</h1><p>a1</p>"},
				{Title: "B", HTML: "<h2>B</h2><p>b1</p>"},
			},
		},
		{
			name: "heading title is plain text",
			html: "<h3>  Laws of <strong>motion</strong> </h3><p>x</p>",
			want: []Section{{Title: "Laws of motion", HTML: "<h3>  Laws of <strong>motion</strong> </h3><p>x</p>"}},
		},
		{
			name: "empty heading gets generic title",
			html: "<h1></h1><p>x</p>",
			want: []Section{{Title: "Section", HTML: "<h1></h1><p>x</p>"}},
		},
		{
			name:     "numbered sections without headings",
			html:     "<p>aaaaaa</p><p>bbbbbb</p><p>cc</p>",
			maxChars: 10,
			want: []Section{
				{Title: "Section 1", HTML: "<p>aaaaaa</p>"},
				{Title: "Section 2", HTML: "<p>bbbbbb</p><p>cc</p>"},
			},
		},
		{
			name:     "oversized unit kept whole",
			html:     "<p>0123456789</p>",
			maxChars: 5,
			want:     []Section{{Title: "Section 1", HTML: "<p>0123456789</p>"}},
		},
		{
			name:     "heading overflow keeps title",
			html:     "<h1>T</h1><p>aaaaaaaaaa</p><p>bbbbbbbbbb</p>",
			maxChars: 10,
			want: []Section{
				{Title: "T", HTML: "<h1>T</h1><p>aaaaaaaaaa</p>"},
				{Title: "T", HTML: "<p>bbbbbbbbbb</p>"},
			},
		},
		{
			name:     "heading stays with an oversized body",
			html:     "<h2>Intro</h2><p>" + strings.Repeat("x", 30) + "</p><h2>Next</h2><p>short</p>",
			maxChars: 10,
			want: []Section{
				{Title: "Intro", HTML: "<h2>Intro</h2><p>" + strings.Repeat("x", 30) + "</p>"},
				{Title: "Next", HTML: "<h2>Next</h2><p>short</p>"},
			},
		},
		{
			name: "nested headings start sections",
			html: "<p>intro</p><blockquote><h2>Quoted</h2><p>q</p></blockquote><ul><li><h3>Listed</h3></li></ul><p>after</p>",
			want: []Section{
				{Title: "Section", HTML: "<p>intro</p>"},
				{Title: "Quoted", HTML: "<blockquote><h2>Quoted</h2><p>q</p></blockquote>"},
				{Title: "Listed", HTML: "<ul><li><h3>Listed</h3></li></ul><p>after</p>"},
			},
		},
		{
			name: "nested markup stays in one unit",
			html: "<ul><li><p>a</p></li><li>b</li></ul><table class=\"lesson-table\"><tbody><tr><td>1</td></tr></tbody></table>",
			want: []Section{{Title: "Section 1", HTML: "<ul><li><p>a</p></li><li>b</li></ul><table class=\"lesson-table\"><tbody><tr><td>1</td></tr></tbody></table>"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(doc(tt.html), tt.maxChars))
		})
	}
}

func TestSplit_DefaultMaxChars(t *testing.T) {
	para := "<p>" + strings.Repeat("x", 4000) + "</p>"

	sections := Split(doc(para+para), 0)
	require.Len(t, sections, 2)
	assert.Equal(t, "Section 1", sections[0].Title)
}

func randomDocument(rng *rand.Rand, withHeadings bool) string {
	var sb strings.Builder
	for i := 0; i < 60; i++ {
		if withHeadings && rng.Intn(6) == 0 {
			level := rng.Intn(3) + 1
			fmt.Fprintf(&sb, "<h%d>Heading %d</h%d>", level, i, level)
			continue
		}
		switch rng.Intn(4) {
		case 0:
			fmt.Fprintf(&sb, "<ul><li>%s</li><li>%s</li></ul>", strings.Repeat("l", rng.Intn(200)), strings.Repeat("m", rng.Intn(200)))
		case 1:
			sb.WriteString(`<p><img class="lesson-image" src="https://e.com/x.png" alt=""/></p>`)
		default:
			fmt.Fprintf(&sb, "<p>%s &amp; %s</p>", strings.Repeat("w ", rng.Intn(700)), strings.Repeat("я", rng.Intn(300)))
		}
	}
	return sb.String()
}

func TestSplit_CoverageAndSizeBound(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const maxChars = 500

	for round := 0; round < 20; round++ {
		withHeadings := round%2 == 0
		html := randomDocument(rng, withHeadings)
		sections := Split(doc(html), maxChars)

		var joined strings.Builder
		for _, s := range sections {
			joined.WriteString(s.HTML)
			assert.NotEmpty(t, s.Title)
		}
		require.Equal(t, html, joined.String(), "round %d", round)

		limit := maxChars
		if strings.Contains(html, "<h") {
			limit = int(float64(maxChars) * OverflowFactor)
		}
		for _, s := range sections {
			if docimport.TextLength(s.HTML) <= limit {
				continue
			}
			counted := 0
			for _, u := range topLevelUnits(s.HTML) {
				if !u.heading && docimport.TextLength(u.raw) > 0 {
					counted++
				}
			}
			assert.LessOrEqual(t, counted, 1, "round %d: oversized section %q holds more than one body unit", round, s.Title)
		}
	}
}

func TestTopLevelUnits(t *testing.T) {
	units := topLevelUnits("text<br/>\n<h2>H</h2><p>a<br>b</p>")

	require.Len(t, units, 4)
	assert.Equal(t, "text", units[0].raw)
	assert.Equal(t, "<br/>", units[1].raw)
	assert.Equal(t, "\n<h2>H</h2>", units[2].raw)
	assert.True(t, units[2].heading)
	assert.Equal(t, "<p>a<br>b</p>", units[3].raw)
	assert.False(t, units[3].heading)

	nested := topLevelUnits("<blockquote><p>x</p><h3>In</h3></blockquote>")
	require.Len(t, nested, 1)
	assert.True(t, nested[0].heading)
}

func TestSplit_HTMLFileWithThreeHeadings(t *testing.T) {
	data := []byte(`<html><head><title>Optics</title></head><body>
<h2>Reflection</h2><p>Angle in equals angle out.</p>
<h2>Refraction</h2><p>Light bends at a boundary.</p>
<h2>Dispersion</h2><p>White light splits into colours.</p>
</body></html>`)

	canonical, err := docimport.NewReader(docimport.Config{}).Read(data, "optics.html")
	require.NoError(t, err)

	sections := Split(canonical, DefaultMaxChars)
	require.Len(t, sections, 3)
	for i, title := range []string{"Reflection", "Refraction", "Dispersion"} {
		assert.Equal(t, title, sections[i].Title)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(sections[i].HTML), "<h2>"+title+"</h2>"), sections[i].HTML)
	}
}
