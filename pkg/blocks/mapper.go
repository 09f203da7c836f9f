package blocks

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromHTML maps canonical lesson HTML to blocks with a depth-first walk.
// Container elements without a block of their own are transparent, and
// textually empty blocks are dropped.
func FromHTML(fragment string) Document {
	root, err := nethtml.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	body := findBody(root)
	if body == nil {
		return nil
	}

	m := &mapper{}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		m.walk(c)
	}

	var doc Document
	for _, b := range m.blocks {
		if keep(b) {
			doc = append(doc, b)
		}
	}
	return doc
}

type mapper struct {
	blocks Document
}

func (m *mapper) add(b Block) {
	m.blocks = append(m.blocks, b)
}

func (m *mapper) walk(n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			m.add(Paragraph{Id: newID(), Content: html.EscapeString(text)})
		}
		return
	case nethtml.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.H1:
		m.add(Heading1{Id: newID(), Content: textContent(n)})
	case atom.H2, atom.H3:
		m.add(Heading2{Id: newID(), Content: textContent(n)})
	case atom.P:
		if img := soleImage(n); img != nil {
			m.add(imageBlock(img))
			return
		}
		m.add(Paragraph{Id: newID(), Content: innerHTML(n)})
	case atom.Ul:
		m.add(BulletList{Id: newID(), Content: listItems(n)})
	case atom.Ol:
		m.add(NumberedList{Id: newID(), Content: listItems(n)})
	case atom.Blockquote:
		m.add(Quote{Id: newID(), Content: innerHTML(n)})
	case atom.Img:
		m.add(imageBlock(n))
	case atom.Table:
		m.add(Table{Id: newID(), TableHTML: outerHTML(n)})
	case atom.Script, atom.Style, atom.Template, atom.Head:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			m.walk(c)
		}
	}
}

func keep(b Block) bool {
	switch v := b.(type) {
	case Quiz, Accordion, Term, Image, Table:
		return true
	case Video:
		return strings.TrimSpace(v.URL) != ""
	case Paragraph:
		return strings.TrimSpace(v.Content) != ""
	case Heading1:
		return strings.TrimSpace(v.Content) != ""
	case Heading2:
		return strings.TrimSpace(v.Content) != ""
	case BulletList:
		return strings.TrimSpace(v.Content) != ""
	case NumberedList:
		return strings.TrimSpace(v.Content) != ""
	case Quote:
		return strings.TrimSpace(v.Content) != ""
	case Callout:
		return strings.TrimSpace(v.Content) != ""
	}
	return false
}

// soleImage returns the paragraph's image when it is the only child apart
// from surrounding whitespace.
func soleImage(p *nethtml.Node) *nethtml.Node {
	var img *nethtml.Node
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == nethtml.TextNode && strings.TrimSpace(c.Data) == "":
		case c.Type == nethtml.ElementNode && c.DataAtom == atom.Img && img == nil:
			img = c
		default:
			return nil
		}
	}
	return img
}

func imageBlock(img *nethtml.Node) Image {
	return Image{Id: newID(), Src: attrValue(img, "src"), Alt: attrValue(img, "alt")}
}

func listItems(list *nethtml.Node) string {
	var items []string
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == nethtml.ElementNode && c.DataAtom == atom.Li {
			items = append(items, innerHTML(c))
		}
	}
	return strings.Join(items, "\n")
}

func findBody(n *nethtml.Node) *nethtml.Node {
	if n.Type == nethtml.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}

func attrValue(n *nethtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *nethtml.Node) string {
	var sb strings.Builder
	var collect func(*nethtml.Node)
	collect = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}

func innerHTML(n *nethtml.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = nethtml.Render(&sb, c)
	}
	return sb.String()
}

func outerHTML(n *nethtml.Node) string {
	var sb strings.Builder
	_ = nethtml.Render(&sb, n)
	return sb.String()
}
