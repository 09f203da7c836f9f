// Package blocks is the typed content-block model of a lesson body: the
// mapping from canonical HTML, the inverse rendering and the stored JSON form.
package blocks

import "strings"

type BlockType string

const (
	TypeParagraph      BlockType = "paragraph"
	TypeHeading1       BlockType = "heading1"
	TypeHeading2       BlockType = "heading2"
	TypeBulletList     BlockType = "bulletList"
	TypeNumberedList   BlockType = "numberedList"
	TypeQuote          BlockType = "quote"
	TypeCalloutInfo    BlockType = "callout-info"
	TypeCalloutWarning BlockType = "callout-warning"
	TypeCalloutTip     BlockType = "callout-tip"
	TypeAccordion      BlockType = "accordion"
	TypeQuiz           BlockType = "quiz"
	TypeTerm           BlockType = "term"
	TypeImage          BlockType = "image"
	TypeVideo          BlockType = "video"
	TypeTable          BlockType = "table"
)

type CalloutKind string

const (
	CalloutInfo    CalloutKind = "info"
	CalloutWarning CalloutKind = "warning"
	CalloutTip     CalloutKind = "tip"
)

// Block is one content block. The set of implementations is closed.
type Block interface {
	ID() string
	Type() BlockType
	isBlock()
}

// Document is a lesson body in reading order.
type Document []Block

// Paragraph content is inline HTML.
type Paragraph struct {
	Id      string
	Content string
}

// Heading1 and Heading2 content is plain text.
type Heading1 struct {
	Id      string
	Content string
}

type Heading2 struct {
	Id      string
	Content string
}

// BulletList content holds one item of inline HTML per line.
type BulletList struct {
	Id      string
	Content string
}

type NumberedList struct {
	Id      string
	Content string
}

type Quote struct {
	Id      string
	Content string
}

type Callout struct {
	Id      string
	Kind    CalloutKind
	Content string
}

type Accordion struct {
	Id      string
	Title   string
	IsOpen  bool
	Content string
}

type QuizOption struct {
	Text      string
	IsCorrect bool
}

// Quiz does not enforce a single correct option; the editor does.
type Quiz struct {
	Id          string
	Question    string
	Options     []QuizOption
	Explanation string
}

type Term struct {
	Id         string
	Word       string
	Definition string
}

type Image struct {
	Id  string
	Src string
	Alt string
}

type Video struct {
	Id  string
	URL string
}

// Table keeps the serialized table markup verbatim.
type Table struct {
	Id        string
	TableHTML string
}

func (b Paragraph) ID() string    { return b.Id }
func (b Heading1) ID() string     { return b.Id }
func (b Heading2) ID() string     { return b.Id }
func (b BulletList) ID() string   { return b.Id }
func (b NumberedList) ID() string { return b.Id }
func (b Quote) ID() string        { return b.Id }
func (b Callout) ID() string      { return b.Id }
func (b Accordion) ID() string    { return b.Id }
func (b Quiz) ID() string         { return b.Id }
func (b Term) ID() string         { return b.Id }
func (b Image) ID() string        { return b.Id }
func (b Video) ID() string        { return b.Id }
func (b Table) ID() string        { return b.Id }

func (Paragraph) Type() BlockType    { return TypeParagraph }
func (Heading1) Type() BlockType     { return TypeHeading1 }
func (Heading2) Type() BlockType     { return TypeHeading2 }
func (BulletList) Type() BlockType   { return TypeBulletList }
func (NumberedList) Type() BlockType { return TypeNumberedList }
func (Quote) Type() BlockType        { return TypeQuote }
func (b Callout) Type() BlockType    { return BlockType("callout-" + string(b.Kind.normalized())) }
func (Accordion) Type() BlockType    { return TypeAccordion }
func (Quiz) Type() BlockType         { return TypeQuiz }
func (Term) Type() BlockType         { return TypeTerm }
func (Image) Type() BlockType        { return TypeImage }
func (Video) Type() BlockType        { return TypeVideo }
func (Table) Type() BlockType        { return TypeTable }

func (Paragraph) isBlock()    {}
func (Heading1) isBlock()     {}
func (Heading2) isBlock()     {}
func (BulletList) isBlock()   {}
func (NumberedList) isBlock() {}
func (Quote) isBlock()        {}
func (Callout) isBlock()      {}
func (Accordion) isBlock()    {}
func (Quiz) isBlock()         {}
func (Term) isBlock()         {}
func (Image) isBlock()        {}
func (Video) isBlock()        {}
func (Table) isBlock()        {}

// Items splits list content into its lines.
func (b BulletList) Items() []string { return splitItems(b.Content) }

func (b NumberedList) Items() []string { return splitItems(b.Content) }

func splitItems(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// normalized maps kinds outside the editor's set to CalloutInfo.
func (k CalloutKind) normalized() CalloutKind {
	switch k {
	case CalloutInfo, CalloutWarning, CalloutTip:
		return k
	}
	return CalloutInfo
}

func calloutKind(t BlockType) (CalloutKind, bool) {
	switch t {
	case TypeCalloutInfo:
		return CalloutInfo, true
	case TypeCalloutWarning:
		return CalloutWarning, true
	case TypeCalloutTip:
		return CalloutTip, true
	}
	return "", false
}
