package handler

import (
	"bilara-reader-be/internal/pkg/logger"
	"bilara-reader-be/internal/pkg/serverutils"
	internalWS "bilara-reader-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// StateHandler upgrades reader connections onto the view-state push channel.
type StateHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewStateHandler(hub *internalWS.Hub, log logger.ILogger) *StateHandler {
	return &StateHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *StateHandler) ServeWs(c *fiber.Ctx) error {
	// Priority 1: Query Param (Browser standard; headers are awkward on the
	// WebSocket constructor)
	idStr := c.Query("session")

	// Priority 2: the regular session header (tooling/non-browser standard)
	if idStr == "" {
		idStr = c.Get(serverutils.SessionHeader)
	}

	if idStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session id (Query 'session' or Header '" + serverutils.SessionHeader + "')"})
	}

	sessionID, err := uuid.Parse(idStr)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id format"})
	}

	// Upgrade via Fiber WebSocket Middleware
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("StateHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, c, sessionID)
			h.logger.Info("StateHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the state push routes.
func (h *StateHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
