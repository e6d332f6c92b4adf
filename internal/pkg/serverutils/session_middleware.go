package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SessionHeader identifies a reader session across requests. The client has
// no account; preferences hang off this id.
const SessionHeader = "X-Reader-Session"

// SessionMiddleware reads the reader session id from the request header,
// issuing a fresh one on first contact. The effective id is echoed back on
// every response so the client can persist it.
func SessionMiddleware(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Get(SessionHeader))
	if err != nil {
		id = uuid.New()
	}
	ctx.Locals("session_id", id)
	ctx.Set(SessionHeader, id.String())
	return ctx.Next()
}
