package blocks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutIDs(doc Document) Document {
	var out Document
	for _, b := range doc {
		w := toWire(b)
		w.ID = ""
		out = append(out, fromWire(w))
	}
	return out
}

func allVariants() Document {
	return Document{
		Paragraph{Id: "p", Content: "a <strong>b</strong> & c"},
		Heading1{Id: "h1", Content: "Intro"},
		Heading2{Id: "h2", Content: "Details"},
		BulletList{Id: "ul", Content: "one\ntwo"},
		NumberedList{Id: "ol", Content: "first"},
		Quote{Id: "q", Content: "said <em>so</em>"},
		Callout{Id: "ci", Kind: CalloutInfo, Content: "note"},
		Callout{Id: "cw", Kind: CalloutWarning, Content: "careful"},
		Callout{Id: "ct", Kind: CalloutTip, Content: ""},
		Accordion{Id: "acc", Title: "More", IsOpen: false, Content: "<p>hidden</p>"},
		Quiz{Id: "quiz", Question: "2+2?", Options: []QuizOption{{Text: "4", IsCorrect: true}, {Text: "5"}}, Explanation: "math"},
		Quiz{Id: "quiz-nil"},
		Quiz{Id: "quiz-empty", Options: []QuizOption{}},
		Term{Id: "term", Word: "Atom", Definition: "smallest unit"},
		Image{Id: "img", Src: "data:image/png;base64,AAAA", Alt: "pic"},
		Video{Id: "vid", URL: "https://youtu.be/abc_123"},
		Table{Id: "tbl", TableHTML: `<table class="lesson-table"><tbody><tr><td>1</td></tr></tbody></table>`},
	}
}

func TestStringifyParse_RoundTrip(t *testing.T) {
	doc := allVariants()

	stored := Stringify(doc)

	assert.Equal(t, doc, Parse(stored))
	assert.Equal(t, stored, Stringify(Parse(stored)))
}

func TestStringifyParse_NormalizedInput(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want Document
	}{
		{
			name: "unknown callout kind",
			doc:  Document{Callout{Id: "c", Kind: "note", Content: "n"}},
			want: Document{Callout{Id: "c", Kind: CalloutInfo, Content: "n"}},
		},
		{
			name: "invalid utf-8",
			doc:  Document{Paragraph{Id: "p", Content: "ok\xffok"}},
			want: Document{Paragraph{Id: "p", Content: "ok\uFFFDok"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := Stringify(tt.doc)
			parsed := Parse(stored)

			assert.Equal(t, tt.want, parsed)
			assert.Equal(t, stored, Stringify(parsed))
		})
	}
}

func TestStringify_EditorFieldNames(t *testing.T) {
	stored := Stringify(Document{
		Accordion{Id: "a", Title: "T", IsOpen: true, Content: "<p>x</p>"},
		Callout{Id: "c", Kind: CalloutWarning, Content: "w"},
	})

	assert.Equal(t,
		`[{"id":"a","type":"accordion","content":"<p>x</p>","accordionTitle":"T","accordionOpen":true},{"id":"c","type":"callout-warning","content":"w"}]`,
		stored)
	assert.Equal(t, "[]", Stringify(nil))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   Document
	}{
		{"not json", "<p>legacy html body</p>", nil},
		{"object instead of array", `{"root":{"children":[]}}`, nil},
		{"element without type", `[{"id":"1","content":"x"}]`, nil},
		{"wrong field type", `[{"id":"1","type":"paragraph","content":5}]`, nil},
		{"empty array", `[]`, nil},
		{
			name:   "unknown type skipped",
			stored: `[{"id":"1","type":"hologram","content":""},{"id":"2","type":"paragraph","content":"x"}]`,
			want:   Document{Paragraph{Id: "2", Content: "x"}},
		},
		{
			name:   "accordion without open flag is open",
			stored: `[{"id":"a","type":"accordion","content":"<p>x</p>","accordionTitle":"T"}]`,
			want:   Document{Accordion{Id: "a", Title: "T", IsOpen: true, Content: "<p>x</p>"}},
		},
		{
			name:   "editor quiz",
			stored: `[{"id":"q","type":"quiz","content":"","quizQuestion":"Q?","quizOptions":[{"text":"A","isCorrect":true},{"text":"B","isCorrect":true}],"quizExplanation":"E"}]`,
			want: Document{Quiz{Id: "q", Question: "Q?", Explanation: "E", Options: []QuizOption{
				{Text: "A", IsCorrect: true},
				{Text: "B", IsCorrect: true},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.stored))
		})
	}
}

func TestFromHTML(t *testing.T) {
	html := `<h1>Title</h1><h3> Sub <em>part</em> </h3><p>Hello <strong>w</strong></p>` +
		`<ul><li>a</li><li>b</li></ul><ol><li>1</li></ol><blockquote>q</blockquote>` +
		`<div><section><p>inside</p></section></div>loose text` +
		`<table class="lesson-table"><tbody><tr><td>1</td></tr></tbody></table>` +
		`<p> </p><p><img src="i.png" alt="A"></p><img src="j.png"><script>ignored()</script>`

	got := FromHTML(html)

	want := Document{
		Heading1{Content: "Title"},
		Heading2{Content: "Sub part"},
		Paragraph{Content: "Hello <strong>w</strong>"},
		BulletList{Content: "a\nb"},
		NumberedList{Content: "1"},
		Quote{Content: "q"},
		Paragraph{Content: "inside"},
		Paragraph{Content: "loose text"},
		Table{TableHTML: `<table class="lesson-table"><tbody><tr><td>1</td></tr></tbody></table>`},
		Image{Src: "i.png", Alt: "A"},
		Image{Src: "j.png"},
	}
	assert.Equal(t, want, withoutIDs(got))

	seen := map[string]bool{}
	for _, b := range got {
		require.NotEmpty(t, b.ID())
		assert.False(t, seen[b.ID()], "duplicate id %s", b.ID())
		seen[b.ID()] = true
	}
}

func TestFromHTML_SoleImageParagraph(t *testing.T) {
	got := FromHTML(`<p><img src="x" alt="y"></p>`)

	require.Len(t, got, 1)
	img, ok := got[0].(Image)
	require.True(t, ok, "expected an image block, got %T", got[0])
	assert.Equal(t, "x", img.Src)
	assert.Equal(t, "y", img.Alt)
}

func TestFromHTML_CaptionedImageStaysParagraph(t *testing.T) {
	got := FromHTML(`<p>Figure 1 <img src="x"></p>`)

	require.Len(t, got, 1)
	assert.Equal(t, TypeParagraph, got[0].Type())
}

func TestFromHTML_EscapesLooseText(t *testing.T) {
	got := FromHTML("a &lt; b")

	require.Len(t, got, 1)
	assert.Equal(t, "a &lt; b", got[0].(Paragraph).Content)
}

func TestToHTML_FromHTML_RoundTrip(t *testing.T) {
	doc := Document{
		Heading1{Content: "T"},
		Heading2{Content: "Fish & chips"},
		Paragraph{Content: "x <strong>y</strong>"},
		BulletList{Content: "a\nb"},
		NumberedList{Content: "c"},
		Quote{Content: "said"},
		Image{Src: "i.png", Alt: "A"},
		Table{TableHTML: `<table class="lesson-table"><tbody><tr><td>1</td></tr></tbody></table>`},
	}

	assert.Equal(t, doc, withoutIDs(FromHTML(ToHTML(doc))))
}

func TestToHTML(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  string
	}{
		{"callout", Callout{Kind: CalloutTip, Content: "t"}, `<div class="callout callout-tip">t</div>`},
		{"open accordion", Accordion{Title: "A&B", IsOpen: true, Content: "<p>x</p>"}, `<details open><summary>A&amp;B</summary><p>x</p></details>`},
		{"closed accordion", Accordion{Title: "A", Content: "x"}, `<details><summary>A</summary>x</details>`},
		{"term", Term{Word: "Atom", Definition: "unit"}, `<p><strong>Atom</strong> — unit</p>`},
		{"quiz", Quiz{Question: "Q", Options: []QuizOption{{Text: "a", IsCorrect: true}, {Text: "b"}}}, `<div class="quiz"><p><strong>Q</strong></p><ol><li>a</li><li>b</li></ol></div>`},
		{"embeddable video", Video{URL: "https://vimeo.com/12345"}, `<div class="video"><iframe src="https://player.vimeo.com/video/12345" allowfullscreen></iframe></div>`},
		{"plain video link", Video{URL: "https://example.com/v.mp4"}, `<p><a href="https://example.com/v.mp4">https://example.com/v.mp4</a></p>`},
		{"empty video", Video{}, ""},
		{"empty list", BulletList{}, "<ul></ul>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTML(Document{tt.block}))
		})
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/abc", "https://www.youtube.com/embed/abc", true},
		{"https://vimeo.com/76979871", "https://player.vimeo.com/video/76979871", true},
		{"https://rutube.ru/video/a1b2c3/", "https://rutube.ru/play/embed/a1b2c3", true},
		{"https://vk.com/video-12345_678", "https://vk.com/video_ext.php?oid=-12345&id=678", true},
		{"https://example.com/movie.mp4", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := EmbedURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	quiz, ok := New(TypeQuiz).(Quiz)
	require.True(t, ok)
	assert.NotEmpty(t, quiz.Id)
	require.Len(t, quiz.Options, 2)
	assert.True(t, quiz.Options[0].IsCorrect)
	assert.False(t, quiz.Options[1].IsCorrect)

	acc := New(TypeAccordion).(Accordion)
	assert.True(t, acc.IsOpen)
	assert.Equal(t, "Section title", acc.Title)

	assert.Equal(t, TypeCalloutTip, New(TypeCalloutTip).Type())
	assert.Nil(t, New(BlockType("hologram")))
	assert.NotEqual(t, New(TypeParagraph).ID(), New(TypeParagraph).ID())
}

func TestToMarkdown(t *testing.T) {
	md, err := ToMarkdown(Document{
		Heading1{Content: "Title"},
		Paragraph{Content: "Hello <strong>world</strong>"},
		BulletList{Content: "a\nb"},
	})
	require.NoError(t, err)

	assert.Contains(t, md, "# Title")
	assert.Contains(t, md, "**world**")
	assert.True(t, strings.Contains(md, "- a") || strings.Contains(md, "* a"))
}
