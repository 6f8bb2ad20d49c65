package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the service
type Config struct {
	Port             string
	GinMode          string
	RedisURL         string
	MovieAPIBaseURL  string
	MovieAPITimeout  time.Duration
	MovieAPIAttempts int
	DefaultLocale    string
	AdminAPIKey      string
	LogLevel         string
	LogFile          string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		MovieAPIBaseURL:  strings.TrimRight(getEnv("MOVIE_API_BASE_URL", "http://localhost:3000/api"), "/"),
		MovieAPITimeout:  getDuration("MOVIE_API_TIMEOUT", 10*time.Second),
		MovieAPIAttempts: getInt("MOVIE_API_ATTEMPTS", 1),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "ru"),
		AdminAPIKey:      os.Getenv("ADMIN_API_KEY"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}

// getDuration accepts Go durations ("5s") or plain seconds ("5")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
