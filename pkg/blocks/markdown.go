package blocks

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// ToMarkdown renders the document as Markdown for previews and exports.
func ToMarkdown(doc Document) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	md, err := conv.ConvertString(ToHTML(doc))
	if err != nil {
		return "", fmt.Errorf("convert lesson to markdown: %w", err)
	}
	return md, nil
}
