package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"photoevent/domain/services"
	wsmanager "photoevent/infrastructure/websocket"
	"photoevent/pkg/logger"
)

// ProcessingHandler streams fingerprint extraction progress for one event.
// On connect it sends a snapshot; afterwards the worker pushes updates
// through the connection manager.
type ProcessingHandler struct {
	photoService services.PhotoService
}

func NewProcessingHandler(photoService services.PhotoService) *ProcessingHandler {
	return &ProcessingHandler{photoService: photoService}
}

// Upgrade gates the route to websocket requests and validates the event id
// while fiber middleware still applies.
func (h *ProcessingHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.ErrBadRequest
	}
	c.Locals("event_id", eventID)
	return c.Next()
}

// Handle runs for the lifetime of one connection.
func (h *ProcessingHandler) Handle(c *websocket.Conn) {
	eventID, ok := c.Locals("event_id").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	wsmanager.Manager.RegisterClient(c, eventID)
	defer wsmanager.Manager.UnregisterClient(c)

	h.sendSnapshot(c, eventID)

	// Reads only serve disconnect detection; clients have nothing to say.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *ProcessingHandler) sendSnapshot(c *websocket.Conn, eventID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	progress, err := h.photoService.ProcessingStatus(ctx, eventID)
	if err != nil {
		logger.Warn(logger.CategoryAPI, "ws_snapshot", "Failed to load processing snapshot", map[string]interface{}{
			"event_id": eventID.String(),
			"error":    err.Error(),
		})
		return
	}

	payload, err := json.Marshal(wsmanager.Message{
		Type: "fingerprint:snapshot",
		Data: map[string]interface{}{
			"total":      progress.Total,
			"pending":    progress.Pending,
			"processing": progress.Processing,
			"completed":  progress.Completed,
			"failed":     progress.Failed,
			"done":       progress.Done(),
		},
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}
	_ = c.WriteMessage(websocket.TextMessage, payload)
}
