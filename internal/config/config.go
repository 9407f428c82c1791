package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Events   EventsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	ShutdownTimeout    time.Duration
}

type DatabaseConfig struct {
	Driver         string // "mongo", "postgres", "bolt" or "memory"
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	Path           string // bolt file
	ConnectTimeout time.Duration
}

type EventsConfig struct {
	Topic   string
	NatsURL string // empty disables forwarding
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverMemory   = "memory"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	driver := getEnv("DB_DRIVER", DriverMongo)

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			ShutdownTimeout:    getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver: driver,
			// MONGO_* names are what existing deployments export.
			Host:           getEnvFirst([]string{"DB_HOST", "MONGO_IP"}, "localhost"),
			Port:           getEnvFirst([]string{"DB_PORT", "MONGO_PORT"}, defaultPort(driver)),
			User:           getEnvFirst([]string{"DB_USER", "MONGO_USER"}, ""),
			Password:       getEnvFirst([]string{"DB_PASSWORD", "MONGO_PASSWORD"}, ""),
			Name:           getEnv("DB_NAME", "notes"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			Path:           getEnv("DB_PATH", "data/notes.db"),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Events: EventsConfig{
			Topic:   getEnv("NOTE_EVENTS_TOPIC", "NOTE_EVENTS"),
			NatsURL: getEnv("NATS_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "27017"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvFirst(keys []string, fallback string) string {
	for _, key := range keys {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go duration strings ("5s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs := getEnvAsInt(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
