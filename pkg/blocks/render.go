package blocks

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	youtubeURL = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/)|youtu\.be/)([a-zA-Z0-9_-]+)`)
	vimeoURL   = regexp.MustCompile(`vimeo\.com/(\d+)`)
	rutubeURL  = regexp.MustCompile(`rutube\.ru/video/([a-zA-Z0-9]+)`)
	vkURL      = regexp.MustCompile(`vk\.com/video(-?\d+)_(\d+)`)
)

// EmbedURL resolves a YouTube, Vimeo, Rutube or VK video page URL to its
// player URL.
func EmbedURL(url string) (string, bool) {
	if m := youtubeURL.FindStringSubmatch(url); m != nil {
		return "https://www.youtube.com/embed/" + m[1], true
	}
	if m := vimeoURL.FindStringSubmatch(url); m != nil {
		return "https://player.vimeo.com/video/" + m[1], true
	}
	if m := rutubeURL.FindStringSubmatch(url); m != nil {
		return "https://rutube.ru/play/embed/" + m[1], true
	}
	if m := vkURL.FindStringSubmatch(url); m != nil {
		return fmt.Sprintf("https://vk.com/video_ext.php?oid=%s&id=%s", m[1], m[2]), true
	}
	return "", false
}

// ToHTML renders blocks back to canonical HTML, one element per block.
// Paragraph, list, quote, callout and accordion content is inline HTML and
// written as is; other text is escaped. Table markup is reproduced verbatim.
func ToHTML(doc Document) string {
	parts := make([]string, 0, len(doc))
	for _, b := range doc {
		if s := renderBlock(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func renderBlock(b Block) string {
	switch v := b.(type) {
	case Paragraph:
		return "<p>" + v.Content + "</p>"
	case Heading1:
		return "<h1>" + html.EscapeString(v.Content) + "</h1>"
	case Heading2:
		return "<h2>" + html.EscapeString(v.Content) + "</h2>"
	case BulletList:
		return renderList("ul", v.Items())
	case NumberedList:
		return renderList("ol", v.Items())
	case Quote:
		return "<blockquote>" + v.Content + "</blockquote>"
	case Callout:
		return fmt.Sprintf(`<div class="callout %s">%s</div>`, v.Type(), v.Content)
	case Accordion:
		open := ""
		if v.IsOpen {
			open = " open"
		}
		return fmt.Sprintf("<details%s><summary>%s</summary>%s</details>", open, html.EscapeString(v.Title), v.Content)
	case Quiz:
		var sb strings.Builder
		sb.WriteString(`<div class="quiz"><p><strong>` + html.EscapeString(v.Question) + "</strong></p><ol>")
		for _, o := range v.Options {
			sb.WriteString("<li>" + html.EscapeString(o.Text) + "</li>")
		}
		sb.WriteString("</ol></div>")
		return sb.String()
	case Term:
		return "<p><strong>" + html.EscapeString(v.Word) + "</strong> — " + html.EscapeString(v.Definition) + "</p>"
	case Image:
		return fmt.Sprintf(`<p><img src="%s" alt="%s"></p>`, html.EscapeString(v.Src), html.EscapeString(v.Alt))
	case Video:
		if embed, ok := EmbedURL(v.URL); ok {
			return fmt.Sprintf(`<div class="video"><iframe src="%s" allowfullscreen></iframe></div>`, html.EscapeString(embed))
		}
		if v.URL == "" {
			return ""
		}
		escaped := html.EscapeString(v.URL)
		return fmt.Sprintf(`<p><a href="%s">%s</a></p>`, escaped, escaped)
	case Table:
		return v.TableHTML
	}
	return ""
}

func renderList(tag string, items []string) string {
	var sb strings.Builder
	sb.WriteString("<" + tag + ">")
	for _, item := range items {
		sb.WriteString("<li>" + item + "</li>")
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}
