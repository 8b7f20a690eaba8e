package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoevent/domain/models"
	"photoevent/domain/repositories"
	"photoevent/domain/services"
	"photoevent/infrastructure/storage"
	"photoevent/pkg/config"
	"photoevent/pkg/fingerprint"
	"photoevent/pkg/logger"
	"photoevent/pkg/observability"
)

type PhotoServiceImpl struct {
	photoRepo repositories.PhotoRepository
	eventRepo repositories.EventRepository
	store     storage.ObjectStorage
	strategy  config.MatchStrategy

	// hashExtractor is set only for the hash strategy; extraction then
	// happens inline during upload. The embedding strategy leaves photos
	// pending for the worker.
	hashExtractor fingerprint.Extractor
}

func NewPhotoService(
	photoRepo repositories.PhotoRepository,
	eventRepo repositories.EventRepository,
	store storage.ObjectStorage,
	cfg *config.Config,
) services.PhotoService {
	s := &PhotoServiceImpl{
		photoRepo: photoRepo,
		eventRepo: eventRepo,
		store:     store,
		strategy:  cfg.Match.Strategy,
	}
	if cfg.Match.Strategy == config.StrategyHash {
		s.hashExtractor = fingerprint.NewHashExtractor()
	}
	return s
}

// UploadPhotos stores each decodable image and registers its Photo row.
// Non-image parts are skipped, not fatal: hosts drag entire folders in.
func (s *PhotoServiceImpl) UploadPhotos(ctx context.Context, userID, eventID uuid.UUID, uploads []services.PhotoUpload) ([]models.Photo, error) {
	if _, err := s.eventRepo.GetByIDAndUser(ctx, eventID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrEventNotFound
		}
		return nil, err
	}

	saved := make([]models.Photo, 0, len(uploads))
	skipped := 0

	for _, upload := range uploads {
		if !fingerprint.Decodable(upload.Data) {
			skipped++
			logger.Upload("skip_non_image", "Skipping non-image upload part", map[string]interface{}{
				"event_id": eventID.String(),
				"filename": upload.FileName,
			})
			continue
		}

		photo, err := s.savePhoto(ctx, eventID, upload)
		if err != nil {
			return saved, fmt.Errorf("failed to save %q: %w", upload.FileName, err)
		}
		saved = append(saved, *photo)
	}

	if len(saved) > 0 {
		if err := s.eventRepo.IncrementPhotoCount(ctx, eventID, len(saved)); err != nil {
			logger.Error(logger.CategoryDB, "photo_count", "Failed to bump photo count", err, map[string]interface{}{
				"event_id": eventID.String(),
			})
		}
	}

	logger.Upload("batch", "Photo upload complete", map[string]interface{}{
		"event_id": eventID.String(),
		"saved":    len(saved),
		"skipped":  skipped,
	})
	return saved, nil
}

func (s *PhotoServiceImpl) savePhoto(ctx context.Context, eventID uuid.UUID, upload services.PhotoUpload) (*models.Photo, error) {
	photoID := uuid.New()
	key := objectKey(eventID, photoID, upload.FileName)

	if err := s.store.Put(ctx, key, upload.Data, upload.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store object: %w", err)
	}

	photo := &models.Photo{
		ID:                photoID,
		EventID:           eventID,
		FileName:          upload.FileName,
		ObjectKey:         key,
		URL:               s.store.PublicURL(key),
		MimeType:          upload.ContentType,
		FileSize:          int64(len(upload.Data)),
		FingerprintStatus: models.FingerprintPending,
	}

	// Hash extraction is cheap and local, so it runs inline; a failure
	// here leaves the photo pending for the worker instead of failing
	// the upload.
	if s.hashExtractor != nil {
		s.fingerprintInline(ctx, photo, upload.Data)
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo row: %w", err)
	}

	observability.PhotosUploaded.Inc()
	return photo, nil
}

func (s *PhotoServiceImpl) fingerprintInline(ctx context.Context, photo *models.Photo, data []byte) {
	start := time.Now()
	fp, err := s.hashExtractor.Extract(ctx, data)
	observability.ExtractionDuration.WithLabelValues(string(s.strategy)).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.FingerprintsExtracted.WithLabelValues(string(s.strategy), "error").Inc()
		logger.Warn(logger.CategoryUpload, "inline_extract", "Inline hash extraction failed, deferring to worker", map[string]interface{}{
			"photo_id": photo.ID.String(),
			"error":    err.Error(),
		})
		return
	}

	encoded, err := fp.EncodeHashes()
	if err != nil {
		return
	}

	now := time.Now()
	photo.Hashes = &encoded
	photo.FingerprintStatus = models.FingerprintCompleted
	photo.FingerprintedAt = &now
	observability.FingerprintsExtracted.WithLabelValues(string(s.strategy), "success").Inc()
}

func (s *PhotoServiceImpl) ListPhotos(ctx context.Context, userID, eventID uuid.UUID) ([]models.Photo, error) {
	if _, err := s.eventRepo.GetByIDAndUser(ctx, eventID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrEventNotFound
		}
		return nil, err
	}
	return s.photoRepo.GetByEvent(ctx, eventID)
}

func (s *PhotoServiceImpl) ListPublicPhotos(ctx context.Context, eventID uuid.UUID) ([]models.Photo, error) {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, services.ErrEventNotFound
	}
	return s.photoRepo.GetByEvent(ctx, eventID)
}

func (s *PhotoServiceImpl) RetryFailedFingerprints(ctx context.Context, userID, eventID uuid.UUID) (int64, error) {
	if _, err := s.eventRepo.GetByIDAndUser(ctx, eventID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, services.ErrEventNotFound
		}
		return 0, err
	}

	n, err := s.photoRepo.ResetFailedToPending(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue photos: %w", err)
	}

	logger.Info(logger.CategoryAPI, "retry_fingerprints", "Requeued failed fingerprints", map[string]interface{}{
		"event_id": eventID.String(),
		"count":    n,
	})
	return n, nil
}

func (s *PhotoServiceImpl) ProcessingStatus(ctx context.Context, eventID uuid.UUID) (*services.FingerprintProgress, error) {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, services.ErrEventNotFound
	}

	total, err := s.photoRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	progress := &services.FingerprintProgress{Total: total}
	for status, dst := range map[models.FingerprintStatus]*int64{
		models.FingerprintPending:    &progress.Pending,
		models.FingerprintProcessing: &progress.Processing,
		models.FingerprintCompleted:  &progress.Completed,
		models.FingerprintFailed:     &progress.Failed,
	} {
		n, err := s.photoRepo.CountByEventAndStatus(ctx, eventID, status)
		if err != nil {
			return nil, err
		}
		*dst = n
	}
	return progress, nil
}

// objectKey builds the storage key for a photo, keeping the original
// extension so content type survives a bucket-level browse.
func objectKey(eventID, photoID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return objectPrefix(eventID) + photoID.String() + ext
}
