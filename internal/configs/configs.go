package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	EventsBackend          string
	RedisAddr              string
	RedisEventsKey         string
	FanoutWorkers          int
	EventQueueSize         int
	RateLimit              int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "board.db"),
		EventsBackend:          getEnv("EVENTS_BACKEND", "redis"),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RedisEventsKey:         getEnv("REDIS_EVENTS_KEY", "domain_events"),
		FanoutWorkers:          getEnvAsInt("FANOUT_WORKERS", 2),
		EventQueueSize:         getEnvAsInt("EVENT_QUEUE_SIZE", 256),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.EventsBackend != "redis" && cfg.EventsBackend != "memory" {
		log.Fatal(`EVENTS_BACKEND must be "redis" or "memory"`)
	}
	if cfg.FanoutWorkers <= 0 {
		log.Fatal("FANOUT_WORKERS must be greater than 0")
	}
	if cfg.EventQueueSize <= 0 {
		log.Fatal("EVENT_QUEUE_SIZE must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
