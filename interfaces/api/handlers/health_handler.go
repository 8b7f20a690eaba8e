package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"photoevent/infrastructure/faceapi"
	"photoevent/infrastructure/redis"
	"photoevent/infrastructure/storage"
	"photoevent/infrastructure/worker"
)

// HealthHandler reports liveness plus per-dependency status.
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.RedisClient
	store       storage.ObjectStorage
	faceClient  *faceapi.FaceClient // nil unless the embedding strategy is active
	fpWorker    *worker.FingerprintWorker
}

func NewHealthHandler(
	db *gorm.DB,
	redisClient *redis.RedisClient,
	store storage.ObjectStorage,
	faceClient *faceapi.FaceClient,
	fpWorker *worker.FingerprintWorker,
) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		store:       store,
		faceClient:  faceClient,
		fpWorker:    fpWorker,
	}
}

// ComponentHealth is the status of one dependency.
type ComponentHealth struct {
	Status  string `json:"status"` // "ok", "error", "unavailable"
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health is the cheap liveness probe.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now(),
	})
}

// DetailedHealth pings every dependency and reports degraded status when
// any fails. The face API counts as a dependency only for embedding
// deployments.
func (h *HealthHandler) DetailedHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	components := make(map[string]ComponentHealth)
	healthy := true

	components["database"] = h.checkDatabase(ctx)
	components["redis"] = h.checkRedis(ctx)
	components["storage"] = h.checkStorage(ctx)
	if h.faceClient != nil {
		components["face_api"] = h.checkFaceAPI(ctx)
	}

	// "unavailable" means an optional dependency (the cache) is absent;
	// the service still works without it.
	for _, comp := range components {
		if comp.Status == "error" {
			healthy = false
		}
	}

	status := "healthy"
	code := fiber.StatusOK
	if !healthy {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	resp := fiber.Map{
		"status":     status,
		"timestamp":  time.Now(),
		"components": components,
	}
	if h.fpWorker != nil {
		resp["worker"] = h.fpWorker.GetStats()
	}
	return c.Status(code).JSON(resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()
	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}
	return ComponentHealth{Status: "ok", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ComponentHealth {
	if h.redisClient == nil {
		return ComponentHealth{Status: "unavailable", Message: "not configured"}
	}
	start := time.Now()
	if err := h.redisClient.Ping(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}
	return ComponentHealth{Status: "ok", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkStorage(ctx context.Context) ComponentHealth {
	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}
	return ComponentHealth{Status: "ok", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkFaceAPI(ctx context.Context) ComponentHealth {
	start := time.Now()
	health, err := h.faceClient.Health(ctx)
	if err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}
	if health.Status != "ok" {
		return ComponentHealth{Status: "error", Message: "face API reports " + health.Status}
	}
	return ComponentHealth{Status: "ok", Latency: time.Since(start).String()}
}
