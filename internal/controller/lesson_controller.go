package controller

import (
	"sigma-lms-be/internal/dto"
	"sigma-lms-be/internal/pkg/serverutils"
	"sigma-lms-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILessonController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Blocks(ctx *fiber.Ctx) error
	Render(ctx *fiber.Ctx) error
	Markdown(ctx *fiber.Ctx) error
}

type lessonController struct {
	lessonService service.ILessonService
}

func NewLessonController(lessonService service.ILessonService) ILessonController {
	return &lessonController{
		lessonService: lessonService,
	}
}

func (c *lessonController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/lesson/v1")
	h.Use(jwtMiddleware)
	h.Post("blocks", serverutils.RequireRoles(serverutils.RoleOrganization, serverutils.RoleAdmin), c.Blocks)
	h.Post("render", c.Render)
	h.Post("markdown", c.Markdown)
}

func (c *lessonController) Blocks(ctx *fiber.Ctx) error {
	var req dto.LessonBlocksRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.lessonService.Blocks(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success map lesson blocks", res))
}

func (c *lessonController) Render(ctx *fiber.Ctx) error {
	var req dto.LessonContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.lessonService.Render(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success render lesson", res))
}

func (c *lessonController) Markdown(ctx *fiber.Ctx) error {
	var req dto.LessonContentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.lessonService.Markdown(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success convert lesson to markdown", res))
}
