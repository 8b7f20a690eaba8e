package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photoevent/domain/dto"
	"photoevent/domain/services"
	"photoevent/pkg/utils"
)

// MatchHandler serves the accountless attendee surface: public event
// lookup, the photo wall and find-my-photos.
type MatchHandler struct {
	eventService services.EventService
	photoService services.PhotoService
	matchService services.MatchService
}

func NewMatchHandler(
	eventService services.EventService,
	photoService services.PhotoService,
	matchService services.MatchService,
) *MatchHandler {
	return &MatchHandler{
		eventService: eventService,
		photoService: photoService,
		matchService: matchService,
	}
}

func (h *MatchHandler) GetPublicEvent(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	event, err := h.eventService.GetPublicEvent(c.UserContext(), eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get event", err)
	}
	return utils.SuccessResponse(c, "", dto.EventToPublicEventResponse(event))
}

func (h *MatchHandler) ListPublicPhotos(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	photos, err := h.photoService.ListPublicPhotos(c.UserContext(), eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list photos", err)
	}
	return utils.SuccessResponse(c, "", dto.PhotosToPhotoResponses(photos))
}

// FindMyPhotos runs the selfie match. It answers with a bare JSON array
// ordered by similarity descending; that shape, including the empty
// array, is the external matching contract.
func (h *MatchHandler) FindMyPhotos(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	file, err := c.FormFile("selfie")
	if err != nil {
		return utils.BadRequestResponse(c, "Missing 'selfie' file", err)
	}

	f, err := file.Open()
	if err != nil {
		return utils.BadRequestResponse(c, "Failed to read selfie", err)
	}
	defer f.Close()

	selfie, err := io.ReadAll(f)
	if err != nil {
		return utils.BadRequestResponse(c, "Failed to read selfie", err)
	}

	results, err := h.matchService.FindMatches(c.UserContext(), eventID, selfie)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return utils.NotFoundResponse(c, "Event not found")
		case errors.Is(err, services.ErrSelfieUndecodable):
			return utils.BadRequestResponse(c, "Selfie is not a readable image", nil)
		case errors.Is(err, services.ErrNoFaceInSelfie):
			return utils.BadRequestResponse(c, "No face detected in selfie, please retake it", nil)
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Match failed", err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(dto.MatchResultsToResponses(results))
}
