package controller

import (
	"bilara-reader-be/internal/pkg/serverutils"
	"bilara-reader-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEditionController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
}

type editionController struct {
	editionService service.IEditionService
}

func NewEditionController(editionService service.IEditionService) IEditionController {
	return &editionController{
		editionService: editionService,
	}
}

func (c *editionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/edition/v1")
	h.Get("", c.Index)
}

func (c *editionController) Index(ctx *fiber.Ctx) error {
	editions := c.editionService.List(ctx.Context())
	if editions == nil {
		if err := c.editionService.LastError(); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "edition metadata unavailable")
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list editions", editions))
}
