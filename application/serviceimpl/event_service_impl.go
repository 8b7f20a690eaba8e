package serviceimpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"photoevent/domain/models"
	"photoevent/domain/repositories"
	"photoevent/domain/services"
	"photoevent/infrastructure/redis"
	"photoevent/infrastructure/storage"
	"photoevent/pkg/config"
	"photoevent/pkg/logger"
)

// publicEventCacheTTL bounds staleness of the attendee-facing event page.
// Event metadata rarely changes; the photo count can lag a little.
const publicEventCacheTTL = 30 * time.Second

type EventServiceImpl struct {
	eventRepo     repositories.EventRepository
	photoRepo     repositories.PhotoRepository
	store         storage.ObjectStorage
	cache         *redis.RedisClient
	publicBaseURL string
}

func NewEventService(
	eventRepo repositories.EventRepository,
	photoRepo repositories.PhotoRepository,
	store storage.ObjectStorage,
	cache *redis.RedisClient,
	cfg *config.Config,
) services.EventService {
	return &EventServiceImpl{
		eventRepo:     eventRepo,
		photoRepo:     photoRepo,
		store:         store,
		cache:         cache,
		publicBaseURL: cfg.App.PublicBaseURL,
	}
}

func (s *EventServiceImpl) CreateEvent(ctx context.Context, userID uuid.UUID, name, description, date string) (*models.Event, error) {
	event := &models.Event{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		Date:        date,
	}
	event.QRURL = fmt.Sprintf("%s/e/%s", s.publicBaseURL, event.ID)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	logger.Info(logger.CategoryAPI, "event_created", "Event created", map[string]interface{}{
		"event_id": event.ID.String(),
		"user_id":  userID.String(),
	})
	return event, nil
}

func (s *EventServiceImpl) ListEvents(ctx context.Context, userID uuid.UUID) ([]models.Event, error) {
	return s.eventRepo.GetByUser(ctx, userID)
}

func (s *EventServiceImpl) GetEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Event, error) {
	event, err := s.eventRepo.GetByIDAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// DeleteEvent removes the event row (photos cascade), the stored objects
// and the cache entry. Object deletion runs first so a crash leaves
// orphaned rows rather than orphaned blobs with live URLs.
func (s *EventServiceImpl) DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	event, err := s.eventRepo.GetByIDAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.ErrEventNotFound
		}
		return err
	}

	if err := s.store.DeletePrefix(ctx, objectPrefix(event.ID)); err != nil {
		logger.Error(logger.CategoryStorage, "delete_prefix", "Failed to delete event objects", err, map[string]interface{}{
			"event_id": event.ID.String(),
		})
		// Keep going; rows are the source of truth.
	}

	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, publicEventCacheKey(event.ID))
	}

	logger.Info(logger.CategoryAPI, "event_deleted", "Event deleted", map[string]interface{}{
		"event_id": event.ID.String(),
		"user_id":  userID.String(),
	})
	return nil
}

func (s *EventServiceImpl) GetPublicEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	if s.cache != nil {
		if cached, found, err := s.cache.Get(ctx, publicEventCacheKey(eventID)); err == nil && found {
			var event models.Event
			if json.Unmarshal([]byte(cached), &event) == nil {
				return &event, nil
			}
		}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrEventNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(event); err == nil {
			_ = s.cache.Set(ctx, publicEventCacheKey(eventID), string(payload), publicEventCacheTTL)
		}
	}
	return event, nil
}

func publicEventCacheKey(eventID uuid.UUID) string {
	return "event:public:" + eventID.String()
}

// objectPrefix is the storage key prefix holding an event's photos.
func objectPrefix(eventID uuid.UUID) string {
	return "events/" + eventID.String() + "/"
}
