package controller

import (
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/pkg/serverutils"
	"daily-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEntryController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Calendar(ctx *fiber.Ctx) error
}

type entryController struct {
	entryService service.IEntryService
}

func NewEntryController(entryService service.IEntryService) IEntryController {
	return &entryController{
		entryService: entryService,
	}
}

func (c *entryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/entry/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("calendar", c.Calendar)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *entryController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.entryService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create entry", res))
}

func (c *entryController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.entryService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "entry not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show entry", res))
}

func (c *entryController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	var req dto.UpdateEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.entryService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update entry", res))
}

func (c *entryController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	if err := c.entryService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete entry", nil))
}

// List serves two query shapes: ?date=YYYY-MM-DD for a single day, or
// ?from=...&to=... for a range.
func (c *entryController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if dateStr := ctx.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		res, err := c.entryService.ListByDate(ctx.Context(), userId, date)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success list entries", res))
	}

	from, err := time.Parse("2006-01-02", ctx.Query("from"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid from, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", ctx.Query("to"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid to, expected YYYY-MM-DD")
	}

	res, err := c.entryService.ListByRange(ctx.Context(), userId, from, to)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list entries", res))
}

func (c *entryController) Calendar(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	from, err := time.Parse("2006-01-02", ctx.Query("from"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid from, expected YYYY-MM-DD")
	}
	to, err := time.Parse("2006-01-02", ctx.Query("to"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid to, expected YYYY-MM-DD")
	}

	res, err := c.entryService.CalendarSummary(ctx.Context(), userId, from, to)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success calendar summary", res))
}
