package blocks

import "github.com/google/uuid"

func newID() string {
	return uuid.NewString()
}

// New returns an empty block of type t with the editor's defaults and a fresh
// id. Unknown types yield nil.
func New(t BlockType) Block {
	id := newID()
	if kind, ok := calloutKind(t); ok {
		return Callout{Id: id, Kind: kind}
	}

	switch t {
	case TypeParagraph:
		return Paragraph{Id: id}
	case TypeHeading1:
		return Heading1{Id: id}
	case TypeHeading2:
		return Heading2{Id: id}
	case TypeBulletList:
		return BulletList{Id: id}
	case TypeNumberedList:
		return NumberedList{Id: id}
	case TypeQuote:
		return Quote{Id: id}
	case TypeAccordion:
		return Accordion{Id: id, Title: "Section title", IsOpen: true}
	case TypeQuiz:
		return Quiz{Id: id, Options: []QuizOption{
			{Text: "", IsCorrect: true},
			{Text: "", IsCorrect: false},
		}}
	case TypeTerm:
		return Term{Id: id}
	case TypeImage:
		return Image{Id: id}
	case TypeVideo:
		return Video{Id: id}
	case TypeTable:
		return Table{Id: id}
	}
	return nil
}
