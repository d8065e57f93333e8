package config

import (
	"os"
	"strconv"
	"time"

	"bilet/internal/cache"
	"bilet/internal/database"
	"bilet/internal/messaging"
	"bilet/internal/search"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	SessionTTL     time.Duration
	RememberMeTTL  time.Duration
	ResetTokenTTL  time.Duration
	UpcomingTTL    time.Duration
	UpcomingLimit  int

	Database      database.Config
	NATS          messaging.Config
	Valkey        cache.Config
	Elasticsearch search.Config
}

// Load builds the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_MIN", 60)) * time.Minute,
		RememberMeTTL: time.Duration(getEnvInt("REMEMBER_ME_TTL_HOURS", 720)) * time.Hour,
		ResetTokenTTL: time.Duration(getEnvInt("RESET_TOKEN_TTL_MIN", 60)) * time.Minute,
		UpcomingTTL:   time.Duration(getEnvInt("UPCOMING_CACHE_TTL_SEC", 30)) * time.Second,
		UpcomingLimit: getEnvInt("UPCOMING_LIMIT", 6),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "bilet"),
			Password:           getEnv("DB_PASSWORD", "bilet123"),
			DBName:             getEnv("DB_NAME", "bilet"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "bilet"),
			ClientID:  getEnv("NATS_CLIENT_ID", "bilet-api"),
			Enabled:   getEnv("NATS_ENABLED", "false") == "true",
		},

		Valkey: cache.Config{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: getEnv("VALKEY_PASSWORD", ""),
			Enabled:  getEnv("VALKEY_ENABLED", "false") == "true",
		},

		Elasticsearch: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "events"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
			Enabled:    getEnv("ELASTICSEARCH_ENABLED", "false") == "true",
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
