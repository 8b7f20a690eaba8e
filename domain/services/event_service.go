package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"photoevent/domain/models"
)

var ErrEventNotFound = errors.New("event not found")

// EventService handles host-owned event lifecycle.
type EventService interface {
	CreateEvent(ctx context.Context, userID uuid.UUID, name, description, date string) (*models.Event, error)
	ListEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error)
	GetEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Event, error)

	// DeleteEvent removes the event, its photos and their stored objects.
	DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) error

	// GetPublicEvent is the accountless attendee lookup; it never exposes
	// the owning user.
	GetPublicEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error)
}
