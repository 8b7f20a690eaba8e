package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	FaceAPI   FaceAPIConfig
	Match     MatchConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name string
	Port string
	Env  string

	// PublicBaseURL is the externally reachable base of the frontend;
	// event QR links are built from it.
	PublicBaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL photos are served from
}

type FaceAPIConfig struct {
	BaseURL string        // base URL of the face detection/encoding service
	Timeout time.Duration // per-call timeout; a hang degrades to an extraction failure
}

// MatchStrategy selects the fingerprint kind for a deployment. The two
// strategies use incompatible score distributions and are never mixed.
type MatchStrategy string

const (
	StrategyHash      MatchStrategy = "hash"
	StrategyEmbedding MatchStrategy = "embedding"
)

type MatchConfig struct {
	Strategy MatchStrategy

	// Thresholds are tunable per strategy: the hash distance-to-score
	// mapping and cosine-based embedding scores have different
	// distributions, so a single cutoff cannot hold precision constant.
	HashThreshold      float64
	EmbeddingThreshold float64

	// TopLogCount pre-threshold scores are logged per query as a tuning
	// diagnostic.
	TopLogCount int
}

// Threshold returns the cutoff for the active strategy.
func (m MatchConfig) Threshold() float64 {
	if m.Strategy == StrategyEmbedding {
		return m.EmbeddingThreshold
	}
	return m.HashThreshold
}

type WorkerConfig struct {
	PollInterval  time.Duration
	MaxConcurrent int
	BatchSize     int
}

type RateLimitConfig struct {
	Enabled           bool
	MaxRequests       int
	WindowSeconds     int
	AuthMaxRequests   int
	AuthWindowSeconds int
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	strategy := MatchStrategy(getEnv("MATCH_STRATEGY", string(StrategyHash)))
	if strategy != StrategyHash && strategy != StrategyEmbedding {
		return nil, fmt.Errorf("invalid MATCH_STRATEGY %q", strategy)
	}

	config := &Config{
		App: AppConfig{
			Name:          getEnv("APP_NAME", "PhotoEvent"),
			Port:          getEnv("APP_PORT", "3000"),
			Env:           getEnv("APP_ENV", "development"),
			PublicBaseURL: getEnv("APP_PUBLIC_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "photoevent"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "photoevent-secret"),
			TTL:    getDuration("JWT_TTL", 72*time.Hour),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "event-photos"),
			UseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
			PublicURL: getEnv("STORAGE_PUBLIC_URL", ""),
		},
		FaceAPI: FaceAPIConfig{
			BaseURL: getEnv("FACE_API_URL", "http://localhost:5000"),
			Timeout: getDuration("FACE_API_TIMEOUT", 120*time.Second),
		},
		Match: MatchConfig{
			Strategy:           strategy,
			HashThreshold:      getFloat("MATCH_HASH_THRESHOLD", 60),
			EmbeddingThreshold: getFloat("MATCH_EMBEDDING_THRESHOLD", 60),
			TopLogCount:        getInt("MATCH_TOP_LOG_COUNT", 5),
		},
		Worker: WorkerConfig{
			PollInterval:  getDuration("WORKER_POLL_INTERVAL", 10*time.Second),
			MaxConcurrent: getInt("WORKER_MAX_CONCURRENT", 3),
			BatchSize:     getInt("WORKER_BATCH_SIZE", 20),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			MaxRequests:       getInt("RATE_LIMIT_MAX_REQUESTS", 60),
			WindowSeconds:     getInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			AuthMaxRequests:   getInt("RATE_LIMIT_AUTH_MAX_REQUESTS", 10),
			AuthWindowSeconds: getInt("RATE_LIMIT_AUTH_WINDOW_SECONDS", 60),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
