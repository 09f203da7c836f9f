package docimport

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// readHTML keeps the inner content of <body> and takes the suggested title
// from <title> when present.
func readHTML(data []byte, fileName string) (CanonicalDocument, error) {
	root, err := html.Parse(strings.NewReader(decodeText(data)))
	if err != nil {
		return CanonicalDocument{}, err
	}

	title := strings.TrimSpace(collapseSpaces(nodeText(findElement(root, atom.Title))))
	if title == "" {
		title = fileStem(fileName)
	}

	container := findElement(root, atom.Body)
	if container == nil {
		container = root
	}

	var sb strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return CanonicalDocument{}, err
		}
	}
	return CanonicalDocument{SuggestedTitle: title, HTML: sb.String()}, nil
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
