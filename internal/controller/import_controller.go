package controller

import (
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"sigma-lms-be/internal/dto"
	"sigma-lms-be/internal/pkg/serverutils"
	"sigma-lms-be/internal/service"
	"sigma-lms-be/pkg/docimport"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IImportController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Import(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	ImportJob(ctx *fiber.Ctx) error
}

type importController struct {
	importService service.IImportService
}

func NewImportController(importService service.IImportService) IImportController {
	return &importController{
		importService: importService,
	}
}

func (c *importController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/course/v1")
	h.Use(jwtMiddleware)
	h.Use(serverutils.RequireRoles(serverutils.RoleOrganization, serverutils.RoleAdmin))
	h.Post("import", c.Import)
	h.Get("imports", c.History)
	h.Get("imports/:id", c.ImportJob)
}

func (c *importController) Import(ctx *fiber.Ctx) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "request must be multipart/form-data")
	}

	// Field names are free; every file part is an upload. Keys are sorted so
	// the failure list does not depend on map order.
	keys := make([]string, 0, len(form.File))
	for key := range form.File {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var uploads []docimport.RawUpload
	for _, key := range keys {
		for _, fh := range form.File[key] {
			data, err := readFormFile(fh)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("could not read uploaded file %q", fh.Filename))
			}
			uploads = append(uploads, docimport.RawUpload{FileName: fh.Filename, Data: data})
		}
	}

	res, err := c.importService.Import(ctx.UserContext(), caller, uploads)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *importController) History(ctx *fiber.Ctx) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	var req dto.ImportHistoryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.importService.History(ctx.UserContext(), caller.UserId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get import history", res))
}

func (c *importController) ImportJob(ctx *fiber.Ctx) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid import id")
	}

	res, err := c.importService.ImportJob(ctx.UserContext(), caller.UserId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get import", res))
}

func callerFrom(ctx *fiber.Ctx) (service.Caller, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return service.Caller{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user id in token")
	}
	role, _ := ctx.Locals("role").(string)
	return service.Caller{UserId: userId, Role: role}, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
