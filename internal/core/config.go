package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	LogLevel     string  `yaml:"log_level"`      // DEBUG, INFO, WARN, ERROR
	GeminiAPIKey string  `yaml:"gemini_api_key"` // Required for generation operations
	Model        string  `yaml:"model"`          // Model identifier
	DataDir      string  `yaml:"data_dir"`       // Where sessions are persisted
	Addr         string  `yaml:"addr"`           // HTTP listen address
	RPS          float64 `yaml:"rps"`            // Model request rate limit
}

// LoadConfig loads configuration from an optional YAML file (SPARK_CONFIG)
// with environment variables taking precedence.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		LogLevel: "info",
		Model:    "gemini-2.5-flash",
		DataDir:  ".spark",
		Addr:     ":8717",
	}

	if path := os.Getenv("SPARK_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	applyEnv(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	applyEnv(&cfg.Model, "SPARK_MODEL")
	applyEnv(&cfg.DataDir, "SPARK_DATA_DIR")
	applyEnv(&cfg.Addr, "SPARK_ADDR")

	// DEBUG flag overrides log level
	if os.Getenv("DEBUG") == "1" {
		cfg.LogLevel = "debug"
	}

	// API key absence is not fatal here: state, navigation and export all
	// work without it. Generation operations validate it when attempted.

	return cfg, nil
}

// applyEnv overwrites dst with the named environment variable when set.
func applyEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}
