package config

import (
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for storage and logging
type Config struct {
	// Storage backend: "sqlite" or "postgres"
	StoreBackend string `yaml:"store_backend"`

	// SQLite
	SQLitePath string `yaml:"sqlite_path"`

	// PostgreSQL
	PostgresURI    string `yaml:"postgres_uri"`
	PostgresDriver string `yaml:"postgres_driver"` // "postgres" (lib/pq) or "pgx"

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "console" or "json"
	LogFile   string `yaml:"log_file"`
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
	cfg := Defaults()
	if path := os.Getenv("SCRIPTURE_CONFIG"); path != "" {
		// A missing or broken file leaves the defaults in place; env still applies.
		_ = MergeFile(&cfg, path)
	}
	applyEnv(&cfg)
	return &cfg
}

// Defaults returns the built-in storage and logging defaults.
func Defaults() Config {
	return Config{
		StoreBackend:   "sqlite",
		SQLitePath:     "data/bible.db",
		PostgresDriver: "postgres",
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// MergeFile overlays non-empty values from a YAML file onto cfg.
func MergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return err
	}
	mergeString(&cfg.StoreBackend, fileCfg.StoreBackend)
	mergeString(&cfg.SQLitePath, fileCfg.SQLitePath)
	mergeString(&cfg.PostgresURI, fileCfg.PostgresURI)
	mergeString(&cfg.PostgresDriver, fileCfg.PostgresDriver)
	mergeString(&cfg.LogLevel, fileCfg.LogLevel)
	mergeString(&cfg.LogFormat, fileCfg.LogFormat)
	mergeString(&cfg.LogFile, fileCfg.LogFile)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", cfg.StoreBackend))
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.PostgresURI = getEnv("POSTGRES_URI", cfg.PostgresURI)
	cfg.PostgresDriver = strings.ToLower(getEnv("POSTGRES_DRIVER", cfg.PostgresDriver))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
}

func mergeString(dst *string, src string) {
	if v := strings.TrimSpace(src); v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
