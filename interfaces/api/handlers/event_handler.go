package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photoevent/domain/dto"
	"photoevent/domain/services"
	"photoevent/pkg/utils"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(eventService services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.BadRequestResponse(c, "Validation failed", err)
	}

	event, err := h.eventService.CreateEvent(c.UserContext(), user.ID, req.Name, req.Description, req.Date)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create event", err)
	}
	return utils.CreatedResponse(c, "Event created", dto.EventToEventResponse(event))
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	events, err := h.eventService.ListEvents(c.UserContext(), user.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list events", err)
	}

	out := make([]dto.EventResponse, len(events))
	for i := range events {
		out[i] = dto.EventToEventResponse(&events[i])
	}
	return utils.SuccessResponse(c, "", out)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	event, err := h.eventService.GetEvent(c.UserContext(), user.ID, eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get event", err)
	}
	return utils.SuccessResponse(c, "", dto.EventToEventResponse(event))
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	if err := h.eventService.DeleteEvent(c.UserContext(), user.ID, eventID); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete event", err)
	}
	return utils.SuccessResponse(c, "Event deleted", nil)
}
