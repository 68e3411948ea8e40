package controller

import (
	"time"

	"timetrack-be/internal/dto"
	"timetrack-be/internal/pkg/serverutils"
	"timetrack-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITimeEntryController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
}

type timeEntryController struct {
	service service.ITimeEntryService
}

func NewTimeEntryController(service service.ITimeEntryService) ITimeEntryController {
	return &timeEntryController{service: service}
}

func (c *timeEntryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/time-entry/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Patch(":id/approve", c.Approve)
	h.Patch(":id/reject", c.Reject)
}

func (c *timeEntryController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateTimeEntryRequest
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

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create time entry", res))
}

// List returns the caller's entries in a date range. Defaults to the last
// seven days when the range is not given.
func (c *timeEntryController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	end := time.Now()
	start := end.AddDate(0, 0, -7)

	if v := ctx.Query("start"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid start, want RFC3339")
		}
		start = parsed
	}
	if v := ctx.Query("end"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid end, want RFC3339")
		}
		end = parsed
	}

	res, err := c.service.List(ctx.Context(), userId, start, end)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get time entries", res))
}

func (c *timeEntryController) Approve(ctx *fiber.Ctx) error {
	return c.review(ctx, true)
}

func (c *timeEntryController) Reject(ctx *fiber.Ctx) error {
	return c.review(ctx, false)
}

func (c *timeEntryController) review(ctx *fiber.Ctx, approved bool) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	entryId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid entry id")
	}

	if approved {
		err = c.service.Approve(ctx.Context(), userId, entryId)
	} else {
		err = c.service.Reject(ctx.Context(), userId, entryId)
	}
	if err != nil {
		return err
	}

	message := "Entry approved"
	if !approved {
		message = "Entry rejected"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, fiber.Map{"id": entryId}))
}
