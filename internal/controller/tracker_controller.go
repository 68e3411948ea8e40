package controller

import (
	"timetrack-be/internal/dto"
	"timetrack-be/internal/pkg/serverutils"
	"timetrack-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITrackerController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Pause(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type trackerController struct {
	service service.ITrackerService
}

func NewTrackerController(service service.ITrackerService) ITrackerController {
	return &trackerController{service: service}
}

func (c *trackerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tracker/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/status", c.Status)
	h.Post("/start", c.Start)
	h.Post("/pause", c.Pause)
	h.Post("/stop", c.Stop)
}

func (c *trackerController) Start(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.StartTrackerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Tracker started", res))
}

func (c *trackerController) Pause(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.Pause(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Tracker paused", res))
}

func (c *trackerController) Stop(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.Stop(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Tracker stopped", res))
}

func (c *trackerController) Status(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.Status(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Tracker status", res))
}
