package service

import (
	"context"
	"encoding/json"
	"testing"

	"sigma-lms-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLessonService_BlocksRenderMarkdown(t *testing.T) {
	svc := NewLessonService()
	ctx := context.Background()

	blocksRes, err := svc.Blocks(ctx, &dto.LessonBlocksRequest{
		Html: `<h1>Intro</h1><p>Some <b>bold</b> text</p><p><img src="x" alt="y"></p><script>alert(1)</script>`,
	})
	require.NoError(t, err)

	var wire []map[string]interface{}
	require.NoError(t, json.Unmarshal(blocksRes.Blocks, &wire))
	require.Len(t, wire, 3)
	assert.Equal(t, "heading1", wire[0]["type"])
	assert.Equal(t, "paragraph", wire[1]["type"])
	assert.Equal(t, "Some <strong>bold</strong> text", wire[1]["content"])
	assert.Equal(t, "image", wire[2]["type"])
	assert.Equal(t, string(blocksRes.Blocks), blocksRes.Content)

	renderRes, err := svc.Render(ctx, &dto.LessonContentRequest{Content: blocksRes.Content})
	require.NoError(t, err)
	assert.Equal(t, "<h1>Intro</h1>\n<p>Some <strong>bold</strong> text</p>\n<p><img src=\"x\" alt=\"y\"></p>", renderRes.Html)

	mdRes, err := svc.Markdown(ctx, &dto.LessonContentRequest{Content: blocksRes.Content})
	require.NoError(t, err)
	assert.Contains(t, mdRes.Markdown, "# Intro")
	assert.Contains(t, mdRes.Markdown, "**bold**")
}

func TestLessonService_RenderUnreadableContent(t *testing.T) {
	res, err := NewLessonService().Render(context.Background(), &dto.LessonContentRequest{Content: "not json"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Html)
}
