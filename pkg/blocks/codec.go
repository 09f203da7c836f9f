package blocks

import (
	"bytes"
	"encoding/json"
	"strings"
)

// wireBlock is the stored JSON shape shared with the lesson editor. Fields a
// variant does not use are omitted.
type wireBlock struct {
	ID              string        `json:"id"`
	Type            BlockType     `json:"type"`
	Content         string        `json:"content"`
	AccordionTitle  *string       `json:"accordionTitle,omitempty"`
	AccordionOpen   *bool         `json:"accordionOpen,omitempty"`
	QuizQuestion    *string       `json:"quizQuestion,omitempty"`
	QuizOptions     *[]wireOption `json:"quizOptions,omitempty"`
	QuizExplanation *string       `json:"quizExplanation,omitempty"`
	TermWord        *string       `json:"termWord,omitempty"`
	TermDefinition  *string       `json:"termDefinition,omitempty"`
	ImageSrc        *string       `json:"imageSrc,omitempty"`
	ImageAlt        *string       `json:"imageAlt,omitempty"`
	VideoURL        *string       `json:"videoUrl,omitempty"`
	TableHTML       *string       `json:"tableHtml,omitempty"`
}

type wireOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Stringify encodes doc into its stored form, a JSON array. It never fails
// and Parse(Stringify(doc)) reproduces doc for valid UTF-8 text. Invalid
// bytes are stored as U+FFFD, and a callout of unknown kind as an info
// callout, so a second round trip is always exact.
func Stringify(doc Document) string {
	wire := make([]wireBlock, 0, len(doc))
	for _, b := range doc {
		if b == nil {
			continue
		}
		wire = append(wire, toWire(b))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Parse decodes a stored lesson body. Malformed or foreign input (not a JSON
// array, or an element without a type) yields an empty document; elements of
// an unknown type are skipped. An accordion without accordionOpen is open.
func Parse(stored string) Document {
	var wire []wireBlock
	if err := json.Unmarshal([]byte(stored), &wire); err != nil {
		return nil
	}

	var doc Document
	for _, w := range wire {
		if w.Type == "" {
			return nil
		}
		if b := fromWire(w); b != nil {
			doc = append(doc, b)
		}
	}
	return doc
}

func toWire(b Block) wireBlock {
	w := wireBlock{ID: b.ID(), Type: b.Type()}
	switch v := b.(type) {
	case Paragraph:
		w.Content = v.Content
	case Heading1:
		w.Content = v.Content
	case Heading2:
		w.Content = v.Content
	case BulletList:
		w.Content = v.Content
	case NumberedList:
		w.Content = v.Content
	case Quote:
		w.Content = v.Content
	case Callout:
		w.Content = v.Content
	case Accordion:
		w.Content = v.Content
		w.AccordionTitle = &v.Title
		w.AccordionOpen = &v.IsOpen
	case Quiz:
		var options []wireOption
		if v.Options != nil {
			options = make([]wireOption, len(v.Options))
			for i, o := range v.Options {
				options[i] = wireOption{Text: o.Text, IsCorrect: o.IsCorrect}
			}
		}
		w.QuizQuestion = &v.Question
		w.QuizOptions = &options
		w.QuizExplanation = &v.Explanation
	case Term:
		w.TermWord = &v.Word
		w.TermDefinition = &v.Definition
	case Image:
		w.ImageSrc = &v.Src
		w.ImageAlt = &v.Alt
	case Video:
		w.VideoURL = &v.URL
	case Table:
		w.TableHTML = &v.TableHTML
	}
	return w
}

func fromWire(w wireBlock) Block {
	if kind, ok := calloutKind(w.Type); ok {
		return Callout{Id: w.ID, Kind: kind, Content: w.Content}
	}

	switch w.Type {
	case TypeParagraph:
		return Paragraph{Id: w.ID, Content: w.Content}
	case TypeHeading1:
		return Heading1{Id: w.ID, Content: w.Content}
	case TypeHeading2:
		return Heading2{Id: w.ID, Content: w.Content}
	case TypeBulletList:
		return BulletList{Id: w.ID, Content: w.Content}
	case TypeNumberedList:
		return NumberedList{Id: w.ID, Content: w.Content}
	case TypeQuote:
		return Quote{Id: w.ID, Content: w.Content}
	case TypeAccordion:
		return Accordion{Id: w.ID, Title: deref(w.AccordionTitle), IsOpen: w.AccordionOpen == nil || *w.AccordionOpen, Content: w.Content}
	case TypeQuiz:
		q := Quiz{Id: w.ID, Question: deref(w.QuizQuestion), Explanation: deref(w.QuizExplanation)}
		if w.QuizOptions != nil && *w.QuizOptions != nil {
			q.Options = make([]QuizOption, len(*w.QuizOptions))
			for i, o := range *w.QuizOptions {
				q.Options[i] = QuizOption{Text: o.Text, IsCorrect: o.IsCorrect}
			}
		}
		return q
	case TypeTerm:
		return Term{Id: w.ID, Word: deref(w.TermWord), Definition: deref(w.TermDefinition)}
	case TypeImage:
		return Image{Id: w.ID, Src: deref(w.ImageSrc), Alt: deref(w.ImageAlt)}
	case TypeVideo:
		return Video{Id: w.ID, URL: deref(w.VideoURL)}
	case TypeTable:
		return Table{Id: w.ID, TableHTML: deref(w.TableHTML)}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
