package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App             AppConfig
	Server          ServerConfig
	Database        DatabaseConfig
	JWT             JWTConfig
	Redis           RedisConfig
	Personalization PersonalizationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled         bool
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RedisDB         int
	SegmentCacheTTL time.Duration

	// connection pool
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// PersonalizationConfig tunes the behavior scorer and the segment classifier.
type PersonalizationConfig struct {
	SegmentTTL               time.Duration
	ScoreInteractionLimit    int
	CategoryInteractionLimit int
	PriceInteractionLimit    int
	LookupConcurrency        int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	segmentTTL, err := getEnvDuration("SEGMENT_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getEnvDuration("REDIS_SEGMENT_CACHE_TTL", segmentTTL)
	if err != nil {
		return nil, err
	}

	redisDialTimeout, err := getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	redisReadTimeout, err := getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	redisWriteTimeout, err := getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	redisPoolSize, err := getEnvInt("REDIS_POOL_SIZE", 10)
	if err != nil {
		return nil, err
	}

	redisMinIdle, err := getEnvInt("REDIS_MIN_IDLE_CONNS", 2)
	if err != nil {
		return nil, err
	}

	scoreLimit, err := getEnvInt("SCORE_INTERACTION_LIMIT", 100)
	if err != nil {
		return nil, err
	}

	categoryLimit, err := getEnvInt("CATEGORY_INTERACTION_LIMIT", 50)
	if err != nil {
		return nil, err
	}

	priceLimit, err := getEnvInt("PRICE_INTERACTION_LIMIT", 20)
	if err != nil {
		return nil, err
	}

	concurrency, err := getEnvInt("ITEM_LOOKUP_CONCURRENCY", 8)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Okazje+ Personalization"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", ""),
			Name:        getEnv("DB_NAME", "okazjeplus"),
			SSLMode:     getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate: getEnv("DB_AUTO_MIGRATE", "true") == "true",
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:         getEnv("REDIS_ENABLED", "false") == "true",
			RedisHost:       getEnv("REDIS_HOST", "localhost"),
			RedisPort:       getEnv("REDIS_PORT", "6379"),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			RedisDB:         redisDB,
			SegmentCacheTTL: cacheTTL,
			DialTimeout:     redisDialTimeout,
			ReadTimeout:     redisReadTimeout,
			WriteTimeout:    redisWriteTimeout,
			PoolSize:        redisPoolSize,
			MinIdleConns:    redisMinIdle,
		},
		Personalization: PersonalizationConfig{
			SegmentTTL:               segmentTTL,
			ScoreInteractionLimit:    scoreLimit,
			CategoryInteractionLimit: categoryLimit,
			PriceInteractionLimit:    priceLimit,
			LookupConcurrency:        concurrency,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Personalization.PriceInteractionLimit > cfg.Personalization.CategoryInteractionLimit {
		return nil, errors.New("price interaction limit cannot exceed category interaction limit")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return d, nil
}
