package controller

import (
	"bilara-reader-be/internal/dto"
	"bilara-reader-be/internal/pkg/serverutils"
	"bilara-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPreferenceController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
}

type preferenceController struct {
	preferenceService service.IPreferenceService
}

func NewPreferenceController(preferenceService service.IPreferenceService) IPreferenceController {
	return &preferenceController{
		preferenceService: preferenceService,
	}
}

func (c *preferenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/preference/v1")
	h.Get("", c.Show)
	h.Put("", c.Update)
	h.Post("restore", c.Restore)
}

func (c *preferenceController) Show(ctx *fiber.Ctx) error {
	sessionId := ctx.Locals("session_id").(uuid.UUID)

	res, err := c.preferenceService.Get(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show preference", res))
}

func (c *preferenceController) Update(ctx *fiber.Ctx) error {
	sessionId := ctx.Locals("session_id").(uuid.UUID)

	var req dto.UpdatePreferenceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.preferenceService.Update(ctx.Context(), sessionId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update preference", res))
}

func (c *preferenceController) Restore(ctx *fiber.Ctx) error {
	sessionId := ctx.Locals("session_id").(uuid.UUID)

	res, err := c.preferenceService.Restore(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success restore preference", res))
}
