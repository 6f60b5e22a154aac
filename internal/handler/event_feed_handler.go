package handler

import (
	"connector-selector/internal/pkg/logger"
	internalWS "connector-selector/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventFeedHandler streams session events over websockets.
type EventFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewEventFeedHandler(hub *internalWS.Hub, log logger.ILogger) *EventFeedHandler {
	return &EventFeedHandler{hub: hub, logger: log}
}

func (h *EventFeedHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	g := r.Group("/advisor/v1/events", auth)
	g.Get("", h.ServeAll)
	g.Get("/:id", h.ServeSession)
}

// ServeAll follows every session, for an operator desk.
func (h *EventFeedHandler) ServeAll(c *fiber.Ctx) error {
	return h.serve(c, internalWS.AllSessions)
}

func (h *EventFeedHandler) ServeSession(c *fiber.Ctx) error {
	return h.serve(c, c.Params("id"))
}

func (h *EventFeedHandler) serve(c *fiber.Ctx, sessionID string) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("EVENT_FEED", "Starting WebSocket feed", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID)
		h.logger.Info("EVENT_FEED", "WebSocket feed ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}
