package handlers

import (
	"gorm.io/gorm"

	"photoevent/domain/services"
	"photoevent/infrastructure/faceapi"
	"photoevent/infrastructure/redis"
	"photoevent/infrastructure/storage"
	"photoevent/infrastructure/worker"
	wshandler "photoevent/interfaces/api/websocket"
)

// Services contains all the services needed for handlers.
type Services struct {
	AuthService  services.AuthService
	EventService services.EventService
	PhotoService services.PhotoService
	MatchService services.MatchService
}

// Infra contains infrastructure handles some handlers probe directly.
type Infra struct {
	DB          *gorm.DB
	RedisClient *redis.RedisClient
	Storage     storage.ObjectStorage
	FaceClient  *faceapi.FaceClient
	Worker      *worker.FingerprintWorker
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	Auth       *AuthHandler
	Event      *EventHandler
	Photo      *PhotoHandler
	Match      *MatchHandler
	Health     *HealthHandler
	Processing *wshandler.ProcessingHandler
}

func NewHandlers(svcs *Services, infra *Infra) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svcs.AuthService),
		Event:      NewEventHandler(svcs.EventService),
		Photo:      NewPhotoHandler(svcs.PhotoService),
		Match:      NewMatchHandler(svcs.EventService, svcs.PhotoService, svcs.MatchService),
		Health:     NewHealthHandler(infra.DB, infra.RedisClient, infra.Storage, infra.FaceClient, infra.Worker),
		Processing: wshandler.NewProcessingHandler(svcs.PhotoService),
	}
}
