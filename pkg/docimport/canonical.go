package docimport

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	TableClass = "lesson-table"
	ImageClass = "lesson-image"
)

// renamed maps presentational tags onto the canonical vocabulary.
var renamed = map[atom.Atom]atom.Atom{
	atom.B:    atom.Strong,
	atom.I:    atom.Em,
	atom.U:    atom.Em,
	atom.Cite: atom.Em,
	atom.Dfn:  atom.Em,
	atom.H4:   atom.H3,
	atom.H5:   atom.H3,
	atom.H6:   atom.H3,
}

var canonicalPolicy = newCanonicalPolicy()

func newCanonicalPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "h1", "h2", "h3", "strong", "em",
		"ul", "ol", "li", "blockquote",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		"img",
	)
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(`+TableClass+`|`+ImageClass+`)$`)).OnElements("table", "img")
	p.AllowAttrs("colspan", "rowspan").Matching(bluemonday.Integer).OnElements("td", "th")

	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("http", "https")
	p.AllowDataURIImages()
	return p
}

// Canonicalize rewrites an HTML fragment into the canonical tag vocabulary:
// p, br, h1-h3, strong, em, ul, ol, li, blockquote, tables and images. Tables
// and images carry their lesson classes. Anything else is dropped, keeping
// its text.
func Canonicalize(fragment string) string {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return strings.TrimSpace(canonicalPolicy.Sanitize(fragment))
	}

	var sb strings.Builder
	for _, n := range nodes {
		normalizeNode(n)
		if err := html.Render(&sb, n); err != nil {
			return strings.TrimSpace(canonicalPolicy.Sanitize(fragment))
		}
	}
	return strings.TrimSpace(canonicalPolicy.Sanitize(sb.String()))
}

func normalizeNode(n *html.Node) {
	if n.Type == html.ElementNode {
		if to, ok := renamed[n.DataAtom]; ok {
			n.DataAtom = to
			n.Data = to.String()
		}
		switch n.DataAtom {
		case atom.Table:
			setClass(n, TableClass)
		case atom.Img:
			setClass(n, ImageClass)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		normalizeNode(c)
	}
}

func setClass(n *html.Node, class string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != "class" {
			attrs = append(attrs, a)
		}
	}
	n.Attr = append(attrs, html.Attribute{Key: "class", Val: class})
}
