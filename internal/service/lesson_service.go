package service

import (
	"context"
	"encoding/json"

	"sigma-lms-be/internal/dto"
	"sigma-lms-be/pkg/blocks"
	"sigma-lms-be/pkg/docimport"
)

type ILessonService interface {
	Blocks(ctx context.Context, req *dto.LessonBlocksRequest) (*dto.LessonBlocksResponse, error)
	Render(ctx context.Context, req *dto.LessonContentRequest) (*dto.LessonRenderResponse, error)
	Markdown(ctx context.Context, req *dto.LessonContentRequest) (*dto.LessonMarkdownResponse, error)
}

type lessonService struct{}

func NewLessonService() ILessonService {
	return &lessonService{}
}

// Blocks maps lesson HTML to blocks. The HTML is canonicalized first so that
// editor pastes go through the same tag vocabulary as imported files.
func (s *lessonService) Blocks(ctx context.Context, req *dto.LessonBlocksRequest) (*dto.LessonBlocksResponse, error) {
	doc := blocks.FromHTML(docimport.Canonicalize(req.Html))
	content := blocks.Stringify(doc)

	return &dto.LessonBlocksResponse{
		Blocks:  json.RawMessage(content),
		Content: content,
	}, nil
}

// Render turns a stored lesson body into HTML. Unreadable bodies render as
// an empty lesson.
func (s *lessonService) Render(ctx context.Context, req *dto.LessonContentRequest) (*dto.LessonRenderResponse, error) {
	return &dto.LessonRenderResponse{
		Html: blocks.ToHTML(blocks.Parse(req.Content)),
	}, nil
}

func (s *lessonService) Markdown(ctx context.Context, req *dto.LessonContentRequest) (*dto.LessonMarkdownResponse, error) {
	md, err := blocks.ToMarkdown(blocks.Parse(req.Content))
	if err != nil {
		return nil, err
	}
	return &dto.LessonMarkdownResponse{Markdown: md}, nil
}
