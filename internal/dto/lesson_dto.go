package dto

import "encoding/json"

type LessonBlocksRequest struct {
	Html string `json:"html" validate:"required"`
}

type LessonBlocksResponse struct {
	Blocks  json.RawMessage `json:"blocks"`
	Content string          `json:"content"`
}

type LessonContentRequest struct {
	Content string `json:"content" validate:"required"`
}

type LessonRenderResponse struct {
	Html string `json:"html"`
}

type LessonMarkdownResponse struct {
	Markdown string `json:"markdown"`
}
