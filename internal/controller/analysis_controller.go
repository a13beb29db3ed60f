package controller

import (
	"time"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/pkg/serverutils"
	"daily-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type analysisController struct {
	analysisService service.IAnalysisService
}

func NewAnalysisController(analysisService service.IAnalysisService) IAnalysisController {
	return &analysisController{
		analysisService: analysisService,
	}
}

func (c *analysisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analysis/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("generate", c.Generate)
	h.Get("", c.List)
	h.Get("show", c.Show)
	h.Put(":id", c.Update)
}

func (c *analysisController) Generate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.GenerateAnalysisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.analysisService.Generate(ctx.Context(), userId, &req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate analysis", res))
}

func (c *analysisController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	period := ctx.Query("period", "day")
	periodStart, err := time.Parse("2006-01-02", ctx.Query("period_start"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid period_start, expected YYYY-MM-DD")
	}

	res, err := c.analysisService.Show(ctx.Context(), userId, period, periodStart)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "analysis not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show analysis", res))
}

func (c *analysisController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	analysisId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid analysis id")
	}

	var req dto.UpdateAnalysisRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.analysisService.UpdateContent(ctx.Context(), userId, analysisId, &req)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "analysis not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update analysis", res))
}

func (c *analysisController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.analysisService.List(ctx.Context(), userId, ctx.Query("period"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list analyses", res))
}
