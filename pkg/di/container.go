package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"photoevent/application/serviceimpl"
	"photoevent/domain/repositories"
	"photoevent/domain/services"
	"photoevent/infrastructure/faceapi"
	"photoevent/infrastructure/postgres"
	"photoevent/infrastructure/redis"
	"photoevent/infrastructure/storage"
	"photoevent/infrastructure/worker"
	"photoevent/interfaces/api/handlers"
	"photoevent/pkg/config"
	"photoevent/pkg/fingerprint"
	"photoevent/pkg/logger"
	"photoevent/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.RedisClient
	Storage     storage.ObjectStorage
	FaceClient  *faceapi.FaceClient
	Scheduler   scheduler.MaintenanceScheduler

	// Repositories
	UserRepository  repositories.UserRepository
	EventRepository repositories.EventRepository
	PhotoRepository repositories.PhotoRepository

	// Core
	Extractor fingerprint.Extractor

	// Services
	AuthService  services.AuthService
	EventService services.EventService
	PhotoService services.PhotoService
	MatchService services.MatchService

	// Workers
	FingerprintWorker *worker.FingerprintWorker
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}
	if err := c.initInfrastructure(); err != nil {
		return err
	}
	c.initRepositories()
	if err := c.initCore(); err != nil {
		return err
	}
	c.initServices()
	c.initWorker()
	c.initScheduler()
	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", map[string]interface{}{
		"strategy": string(cfg.Match.Strategy),
	})
	return nil
}

func (c *Container) initInfrastructure() error {
	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
	})
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	c.RedisClient = redis.NewRedisClient(redis.RedisConfig{
		Host:     c.Config.Redis.Host,
		Port:     c.Config.Redis.Port,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if err := c.RedisClient.Ping(context.Background()); err != nil {
		// The public event cache degrades to direct DB reads.
		logger.StartupWarn("redis_connection_failed", "Redis connection failed", map[string]interface{}{"error": err.Error()})
		c.RedisClient = nil
	} else {
		logger.Startup("redis_connected", "Redis connected", nil)
	}

	store, err := storage.NewMinIOStorage(storage.MinIOConfig{
		Endpoint:  c.Config.Storage.Endpoint,
		AccessKey: c.Config.Storage.AccessKey,
		SecretKey: c.Config.Storage.SecretKey,
		Bucket:    c.Config.Storage.Bucket,
		UseSSL:    c.Config.Storage.UseSSL,
		PublicURL: c.Config.Storage.PublicURL,
	})
	if err != nil {
		return err
	}
	if err := store.EnsureBucket(context.Background()); err != nil {
		return err
	}
	c.Storage = store
	logger.Startup("storage_initialized", "Object storage initialized", map[string]interface{}{
		"bucket": c.Config.Storage.Bucket,
	})

	return nil
}

func (c *Container) initRepositories() {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.EventRepository = postgres.NewEventRepository(c.DB)
	c.PhotoRepository = postgres.NewPhotoRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
}

// initCore builds the fingerprint extractor for the configured strategy.
func (c *Container) initCore() error {
	switch c.Config.Match.Strategy {
	case config.StrategyEmbedding:
		c.FaceClient = faceapi.NewFaceClient(c.Config.FaceAPI.BaseURL, c.Config.FaceAPI.Timeout)
		c.Extractor = faceapi.NewEmbeddingExtractor(c.FaceClient)
		if !c.FaceClient.IsAvailable(context.Background()) {
			logger.StartupWarn("face_api_unavailable", "Face API not reachable, worker will keep retrying", map[string]interface{}{
				"url": c.Config.FaceAPI.BaseURL,
			})
		}
	default:
		c.Extractor = fingerprint.NewHashExtractor()
	}
	logger.Startup("extractor_initialized", "Fingerprint extractor initialized", map[string]interface{}{
		"strategy": string(c.Config.Match.Strategy),
	})
	return nil
}

func (c *Container) initServices() {
	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, c.Config)
	c.EventService = serviceimpl.NewEventService(c.EventRepository, c.PhotoRepository, c.Storage, c.RedisClient, c.Config)
	c.PhotoService = serviceimpl.NewPhotoService(c.PhotoRepository, c.EventRepository, c.Storage, c.Config)
	c.MatchService = serviceimpl.NewMatchService(c.EventRepository, c.PhotoRepository, c.Extractor, c.Config.Match)
	logger.Startup("services_initialized", "Services initialized", nil)
}

func (c *Container) initWorker() {
	var healthCheck func(ctx context.Context) bool
	if c.FaceClient != nil {
		healthCheck = c.FaceClient.IsAvailable
	}

	c.FingerprintWorker = worker.NewFingerprintWorker(
		c.PhotoRepository,
		c.Storage,
		c.Extractor,
		c.Config,
		healthCheck,
	)
	c.FingerprintWorker.Start()
}

// initScheduler wires the periodic maintenance jobs: requeueing photos a
// crash left in processing, and reconciling the denormalized photo
// counters.
func (c *Container) initScheduler() {
	c.Scheduler = scheduler.NewMaintenanceScheduler()
	c.Scheduler.Start()

	if err := c.Scheduler.AddJob("requeue-stuck-fingerprints", "*/10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := c.PhotoRepository.ResetStuckProcessing(ctx, time.Now().Add(-15*time.Minute))
		if err != nil {
			logger.Error(logger.CategoryWorker, "requeue_stuck", "Failed to requeue stuck photos", err, nil)
			return
		}
		if n > 0 {
			logger.Worker("requeue_stuck", "Requeued stuck photos", map[string]interface{}{"count": n})
		}
	}); err != nil {
		logger.StartupWarn("job_schedule_failed", "Failed to schedule stuck-photo requeue", map[string]interface{}{"error": err.Error()})
	}

	if err := c.Scheduler.AddJob("reconcile-photo-counts", "0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		ids, err := c.EventRepository.ListIDs(ctx)
		if err != nil {
			logger.Error(logger.CategoryDB, "reconcile_counts", "Failed to list events", err, nil)
			return
		}
		for _, id := range ids {
			count, err := c.PhotoRepository.CountByEvent(ctx, id)
			if err != nil {
				continue
			}
			if err := c.EventRepository.SetPhotoCount(ctx, id, count); err != nil {
				logger.Error(logger.CategoryDB, "reconcile_counts", "Failed to set photo count", err, map[string]interface{}{
					"event_id": id.String(),
				})
			}
		}
	}); err != nil {
		logger.StartupWarn("job_schedule_failed", "Failed to schedule photo-count reconciliation", map[string]interface{}{"error": err.Error()})
	}

	logger.Startup("scheduler_started", "Maintenance scheduler started", nil)
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService:  c.AuthService,
		EventService: c.EventService,
		PhotoService: c.PhotoService,
		MatchService: c.MatchService,
	}
}

func (c *Container) GetHandlerInfra() *handlers.Infra {
	return &handlers.Infra{
		DB:          c.DB,
		RedisClient: c.RedisClient,
		Storage:     c.Storage,
		FaceClient:  c.FaceClient,
		Worker:      c.FingerprintWorker,
	}
}

func (c *Container) Cleanup() error {
	logger.Startup("cleanup_started", "Starting cleanup...", nil)

	if c.FingerprintWorker != nil && c.FingerprintWorker.IsRunning() {
		c.FingerprintWorker.Stop()
	}

	if c.Scheduler != nil && c.Scheduler.IsRunning() {
		c.Scheduler.Stop()
		logger.Startup("scheduler_stopped", "Maintenance scheduler stopped", nil)
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis connection", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			}
		}
	}

	logger.Startup("cleanup_completed", "Cleanup completed", nil)
	return nil
}
