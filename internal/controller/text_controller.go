package controller

import (
	"bilara-reader-be/internal/dto"
	"bilara-reader-be/internal/pkg/serverutils"
	"bilara-reader-be/internal/service"
	"bilara-reader-be/pkg/bilara"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITextController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Lookup(ctx *fiber.Ctx) error
}

type textController struct {
	textService service.ITextService
}

func NewTextController(textService service.ITextService) ITextController {
	return &textController{
		textService: textService,
	}
}

func (c *textController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/text/v1")
	h.Get(":uid", c.Show)
	h.Post(":uid/lookup", c.Lookup)
}

func (c *textController) Show(ctx *fiber.Ctx) error {
	sessionId := ctx.Locals("session_id").(uuid.UUID)
	uid := ctx.Params("uid")

	// The five view parameters plus lang come straight off the shareable URL;
	// resolution against the saved preference happens in the service.
	params := bilara.QueryParams{
		Layout:    ctx.Query("layout"),
		Notes:     ctx.Query("notes"),
		Script:    ctx.Query("script"),
		Highlight: ctx.Query("highlight"),
		Reference: ctx.Query("reference"),
		Lang:      ctx.Query("lang"),
	}
	fragment := ctx.Query("fragment")

	res, err := c.textService.Compose(ctx.Context(), sessionId, uid, params, fragment)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success compose text", res))
}

func (c *textController) Lookup(ctx *fiber.Ctx) error {
	sessionId := ctx.Locals("session_id").(uuid.UUID)
	uid := ctx.Params("uid")

	var req dto.LookupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	res, err := c.textService.Lookup(ctx.Context(), sessionId, uid, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success lookup word", res))
}
