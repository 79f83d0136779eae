package handler

import (
	"context"
	"encoding/json"

	"recipe-steps-be/internal/dto"
	"recipe-steps-be/internal/pkg/logger"
	"recipe-steps-be/internal/pkg/serverutils"
	"recipe-steps-be/internal/service"
	internalWS "recipe-steps-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// StepsEditorHandler carries editor events over a websocket. Every inbound frame is
// one EditorEventRequest; outbound frames are snapshot envelopes broadcast by the hub.
type StepsEditorHandler struct {
	service service.IStepEditorService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewStepsEditorHandler(service service.IStepEditorService, hub *internalWS.Hub, log logger.ILogger) *StepsEditorHandler {
	return &StepsEditorHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

// ServeWs checks the caller owns the session, then upgrades the connection.
func (h *StepsEditorHandler) ServeWs(c *fiber.Ctx) error {
	userId, err := serverutils.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Unauthorized"))
	}
	sessionId := c.Params("id")

	// Ownership and existence are checked before the upgrade so failures are plain HTTP errors
	if _, err := h.service.Show(c.UserContext(), userId, sessionId); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("StepsEditorHandler", "Starting WebSocket session", map[string]interface{}{
			"session_id": sessionId,
			"user_id":    userId,
		})

		// Greet the new client with the current state
		if res, err := h.service.Show(context.Background(), userId, sessionId); err == nil {
			if frame, err := json.Marshal(internalWS.Envelope{Type: service.MessageSnapshot, Data: res}); err == nil {
				conn.WriteMessage(websocket.TextMessage, frame)
			}
		}

		internalWS.ServeWs(h.hub, conn, sessionId, userId, func(client *internalWS.Client, message []byte) {
			h.handleFrame(client, message)
		})

		h.logger.Info("StepsEditorHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionId})
	})(c)
}

// handleFrame dispatches one inbound event. Errors go back to the sending client only.
func (h *StepsEditorHandler) handleFrame(client *internalWS.Client, message []byte) {
	userId, sessionId := client.UserID, client.SessionID

	var req dto.EditorEventRequest
	if err := json.Unmarshal(message, &req); err != nil {
		h.reject(client, fiber.StatusBadRequest, "Invalid event frame")
		return
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		h.reject(client, fiber.StatusBadRequest, err.Error())
		return
	}

	// Dispatch broadcasts the resulting snapshot to every client of the session
	if _, err := h.service.Dispatch(context.Background(), userId, sessionId, &req); err != nil {
		h.logger.Warn("StepsEditorHandler", "Editor event rejected", map[string]interface{}{
			"session_id": sessionId,
			"type":       req.Type,
			"error":      err.Error(),
		})
		h.reject(client, fiber.StatusUnprocessableEntity, err.Error())
	}
}

func (h *StepsEditorHandler) reject(client *internalWS.Client, code int, message string) {
	h.hub.Reply(client, service.MessageError, serverutils.ErrorResponse(code, message))
}

// RegisterRoutes registers the websocket route.
func (h *StepsEditorHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/steps-editor/v1/:id/ws", serverutils.JwtMiddleware, h.ServeWs)
}
