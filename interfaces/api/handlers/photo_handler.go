package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"photoevent/domain/dto"
	"photoevent/domain/services"
	"photoevent/pkg/utils"
)

type PhotoHandler struct {
	photoService services.PhotoService
}

func NewPhotoHandler(photoService services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// Upload accepts a multipart batch under the "photos" field. Parts that
// are not decodable images are skipped server-side.
func (h *PhotoHandler) Upload(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid multipart form", err)
	}

	files := form.File["photos"]
	if len(files) == 0 {
		return utils.BadRequestResponse(c, "No files in 'photos' field", nil)
	}

	uploads := make([]services.PhotoUpload, 0, len(files))
	for _, file := range files {
		data, err := readMultipartFile(file)
		if err != nil {
			return utils.BadRequestResponse(c, "Failed to read uploaded file", err)
		}
		uploads = append(uploads, services.PhotoUpload{
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	photos, err := h.photoService.UploadPhotos(c.UserContext(), user.ID, eventID, uploads)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Upload failed", err)
	}

	return utils.CreatedResponse(c, "Photos uploaded", fiber.Map{
		"uploaded": len(photos),
		"skipped":  len(uploads) - len(photos),
		"photos":   dto.PhotosToPhotoResponses(photos),
	})
}

func (h *PhotoHandler) List(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	photos, err := h.photoService.ListPhotos(c.UserContext(), user.ID, eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list photos", err)
	}
	return utils.SuccessResponse(c, "", dto.PhotosToPhotoResponses(photos))
}

// RetryFingerprints requeues failed extractions for the worker.
func (h *PhotoHandler) RetryFingerprints(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "User not authenticated")
	}

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	n, err := h.photoService.RetryFailedFingerprints(c.UserContext(), user.ID, eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to requeue fingerprints", err)
	}
	return utils.SuccessResponse(c, "Fingerprints requeued", fiber.Map{"requeued": n})
}

// ProcessingStatus reports fingerprint extraction progress for an event.
func (h *PhotoHandler) ProcessingStatus(c *fiber.Ctx) error {
	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid event id", err)
	}

	progress, err := h.photoService.ProcessingStatus(c.UserContext(), eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return utils.NotFoundResponse(c, "Event not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get processing status", err)
	}
	return utils.SuccessResponse(c, "", progress)
}

func readMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
