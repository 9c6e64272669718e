package config

import (
	"os"
	"strconv"
	"time"

	"parkgate/internal/cache"
	"parkgate/internal/database"
	"parkgate/internal/messaging"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Unpaid pending bookings older than BookingExpiry are cancelled by the
	// sweeper and their seats released.
	BookingExpiry time.Duration
	SweepInterval time.Duration

	Database database.Config
	NATS     messaging.Config
	Cache    cache.Config
	Search   ElasticsearchConfig
}

// ElasticsearchConfig configures the event search index.
type ElasticsearchConfig struct {
	Enabled    bool
	URL        string
	Username   string
	Password   string
	Index      string
	MaxRetries int
}

// Load reads configuration from the environment. A .env file in the working
// directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		BookingExpiry: time.Duration(getEnvInt("BOOKING_EXPIRY_MIN", 30)) * time.Minute,
		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 60)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "parkgate"),
			Password:           getEnv("DB_PASSWORD", "parkgate"),
			DBName:             getEnv("DB_NAME", "parkgate"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "parkgate"),
			ClientID:  getEnv("NATS_CLIENT_ID", "parkgate-api"),
			Enabled:   getEnv("NATS_ENABLED", "false") == "true",
		},

		Cache: cache.Config{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			AuthTTL:  time.Duration(getEnvInt("REDIS_AUTH_TTL_SEC", 300)) * time.Second,
			ListTTL:  time.Duration(getEnvInt("REDIS_LIST_TTL_SEC", 30)) * time.Second,
		},

		Search: ElasticsearchConfig{
			Enabled:    getEnv("ES_ENABLED", "false") == "true",
			URL:        getEnv("ES_URL", "http://localhost:9200"),
			Username:   getEnv("ES_USERNAME", ""),
			Password:   getEnv("ES_PASSWORD", ""),
			Index:      getEnv("ES_INDEX", "parkgate-events"),
			MaxRetries: getEnvInt("ES_MAX_RETRIES", 3),
		},
	}
}

// getEnv returns the environment value for key, or the default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer environment value for key, or the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
