package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"photoevent/domain/models"
)

type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Photo, error)

	// GetByEvent returns all photos of an event ordered by creation time
	// ascending then id, so ranking tie-breaks are stable across queries.
	GetByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Photo, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	CountByEventAndStatus(ctx context.Context, eventID uuid.UUID, status models.FingerprintStatus) (int64, error)
	DeleteByEvent(ctx context.Context, eventID uuid.UUID) error

	// Fingerprint lifecycle
	UpdateFingerprint(ctx context.Context, id uuid.UUID, photo *models.Photo) error
	UpdateFingerprintStatus(ctx context.Context, id uuid.UUID, status models.FingerprintStatus) error
	GetByFingerprintStatus(ctx context.Context, status models.FingerprintStatus, limit int) ([]models.Photo, error)
	ResetFailedToPending(ctx context.Context, eventID uuid.UUID) (int64, error)
	ResetStuckProcessing(ctx context.Context, olderThan time.Time) (int64, error)
}
