package controller

import (
	"timetrack-be/internal/dto"
	"timetrack-be/internal/pkg/serverutils"
	"timetrack-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
}

type projectController struct {
	service service.IProjectService
}

func NewProjectController(service service.IProjectService) IProjectController {
	return &projectController{service: service}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/project/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create project", res))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get project", res))
}

func (c *projectController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all projects", res))
}
