package handler

import (
	"dossier-be/internal/apperror"
	"dossier-be/internal/pkg/logger"
	internalWS "dossier-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// WorkspaceLookup reports whether a workspace is open.
type WorkspaceLookup interface {
	Exists(id uuid.UUID) bool
}

// NotificationHandler streams a workspace's notifications over a WebSocket.
type NotificationHandler struct {
	hub        *internalWS.Hub
	workspaces WorkspaceLookup
	logger     logger.ILogger
}

func NewNotificationHandler(hub *internalWS.Hub, workspaces WorkspaceLookup, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		hub:        hub,
		workspaces: workspaces,
		logger:     log,
	}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/workspace/v1/:id/ws", h.ServeWs)
}

// ServeWs upgrades the request once the workspace is known to exist.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	workspaceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	if !h.workspaces.Exists(workspaceID) {
		return apperror.ErrWorkspaceNotFound
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"workspace_id": workspaceID.String()})
		internalWS.ServeWs(h.hub, conn, workspaceID)
		h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"workspace_id": workspaceID.String()})
	})(c)
}
