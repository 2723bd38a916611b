package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	JWTSecret         string
	TokenExpiry       time.Duration
	RedisURL          string
	AllowedOrigins    []string
	OutboxRetrySpec   string
	OutboxMaxAttempts int
	OutboxBatch       int
	LogLevel          string
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	origins := []string{"http://localhost:3000", "http://localhost:3001"}
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		origins = append(origins, strings.Split(frontend, ",")...)
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:            getEnv("DB_NAME", "travel_planner"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenExpiry:       getDuration("TOKEN_EXPIRY", 72*time.Hour),
		RedisURL:          os.Getenv("REDIS_URL"),
		AllowedOrigins:    origins,
		OutboxRetrySpec:   getEnv("OUTBOX_RETRY_SPEC", "@every 1m"),
		OutboxMaxAttempts: getInt("OUTBOX_MAX_ATTEMPTS", 5),
		OutboxBatch:       getInt("OUTBOX_BATCH", 50),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		logrus.WithField("key", key).Warnf("Invalid duration %q, using default %s", v, fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using default %d", v, fallback)
		return fallback
	}
	return n
}
