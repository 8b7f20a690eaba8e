package repositories

import (
	"context"

	"github.com/google/uuid"
	"photoevent/domain/models"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Event, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementPhotoCount adjusts the denormalized photo counter by delta
	// (negative to decrement).
	IncrementPhotoCount(ctx context.Context, id uuid.UUID, delta int) error

	// SetPhotoCount overwrites the counter, used by the reconciliation job.
	SetPhotoCount(ctx context.Context, id uuid.UUID, count int64) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}
