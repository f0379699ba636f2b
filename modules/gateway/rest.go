package gateway

import (
	"errors"

	"github.com/example/realtime-chat-demo/modules/chat"
	"github.com/gofiber/fiber/v2"
)

const defaultHistoryLimit = 100

// listUsers handles GET /api/v1/users.
func (m *Module) listUsers(c *fiber.Ctx) error {
	return c.JSON(m.presence.List())
}

// listRooms handles GET /api/v1/rooms.
func (m *Module) listRooms(c *fiber.Ctx) error {
	rooms, err := m.chatPort.ListRooms(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list rooms",
		})
	}
	return c.JSON(rooms)
}

// createRoom handles POST /api/v1/rooms.
func (m *Module) createRoom(c *fiber.Ctx) error {
	var req chat.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}

	room, err := m.chatPort.CreateRoom(c.UserContext(), req.Name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// getHistory handles GET /api/v1/rooms/:id/history.
func (m *Module) getHistory(c *fiber.Ctx) error {
	roomID := c.Params("id")
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}

	messages, err := m.chatPort.GetHistory(c.UserContext(), roomID, limit)
	if err != nil {
		if errors.Is(err, chat.ErrRoomNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error:   "not_found",
				Message: "Room not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "history_failed",
			Message: "Failed to get history",
		})
	}
	return c.JSON(messages)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "healthy",
		"connected_clients": m.hub.ClientCount(),
	})
}
