package config

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
	"time"
)

// Config holds the HTTP server configuration. Storage and logging settings
// live in pkg/schema/config.
type Config struct {
	APITitle   string
	APIVersion string
	APIPrefix  string
	Port       string

	// In-flight requests get this long to finish on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration

	CORSOrigins []string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration instance
func GetConfig() *Config {
	once.Do(func() {
		config = loadConfig()
	})
	return config
}

func loadConfig() *Config {
	return &Config{
		APITitle:        getEnv("API_TITLE", "Sola Scriptura Reader API"),
		APIVersion:      getEnv("API_VERSION", "1.0.0"),
		APIPrefix:       strings.TrimRight(getEnv("API_PREFIX", "/api/v1"), "/"),
		Port:            getEnv("PORT", "8000"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     parseCORSOrigins(getEnv("CORS_ORIGINS", "*")),
	}
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseCORSOrigins accepts a JSON array or a comma-separated list.
func parseCORSOrigins(value string) []string {
	var origins []string
	if err := json.Unmarshal([]byte(value), &origins); err == nil {
		return origins
	}
	parts := strings.Split(value, ",")
	origins = make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
