package serverutils

import (
	"errors"

	"bilara-reader-be/pkg/bilara"

	"github.com/gofiber/fiber/v2"
)

// ErrNotFound marks lookups whose subject does not exist; controllers and
// services wrap it so the middleware can answer 404.
var ErrNotFound = errors.New("not found")

// ErrorHandlerMiddleware maps service errors onto the HTTP envelope. It runs
// after the handler so controllers can simply return errors.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(verr.Error()))
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Message))
		}

		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, bilara.ErrRangeNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, bilara.ErrOverlappingRanges):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(err.Error()))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
