package controller

import (
	"errors"

	"daily-journal-be/internal/dto"
	"daily-journal-be/internal/pkg/serverutils"
	"daily-journal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPasswordlessController interface {
	RegisterRoutes(r fiber.Router)
	RequestLink(ctx *fiber.Ctx) error
	ConsumeLink(ctx *fiber.Ctx) error
}

type passwordlessController struct {
	service service.IPasswordlessService
}

func NewPasswordlessController(service service.IPasswordlessService) IPasswordlessController {
	return &passwordlessController{service: service}
}

func (c *passwordlessController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/link")
	h.Post("/request", c.RequestLink)
	h.Post("/consume", c.ConsumeLink)
}

func (c *passwordlessController) RequestLink(ctx *fiber.Ctx) error {
	var req dto.RequestLoginLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RequestLoginLink(ctx.Context(), &req); err != nil {
		if errors.Is(err, service.ErrPasswordlessDisabled) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("If the email exists, a login link has been sent", nil))
}

func (c *passwordlessController) ConsumeLink(ctx *fiber.Ctx) error {
	var req dto.ConsumeLoginLinkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ConsumeLoginLink(ctx.Context(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		if errors.Is(err, service.ErrPasswordlessDisabled) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}
