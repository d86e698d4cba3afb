package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the health assistant server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Reports ReportsConfig `yaml:"reports"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// StorageConfig selects and locates the patient store backend.
// Driver is "sqlite" (Path is the database file) or "postgres" (URL is the DSN).
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
}

// ReportsConfig locates the diagnostic reports directory.
type ReportsConfig struct {
	Dir string `yaml:"dir"`
}

// SessionConfig holds conversational session settings. The API key is taken
// from OPENAI_API_KEY only, never from the config file.
type SessionConfig struct {
	Model string `yaml:"model"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// Load loads configuration from a YAML file, expanding environment variables
// in the file body first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("PORT", 8080),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "sqlite"),
			Path:   getEnv("STORAGE_PATH", "health_assistant.sqlite"),
			URL:    getEnv("DATABASE_URL", ""),
		},
		Reports: ReportsConfig{
			Dir: getEnv("REPORTS_DIR", "reports"),
		},
		Session: SessionConfig{
			Model: getEnv("OPENAI_MODEL", ""),
		},
		Log: LogConfig{
			Mode: getEnv("LOG_MODE", "development"),
		},
	}
}

func defaults() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Driver: "sqlite", Path: "health_assistant.sqlite"},
		Reports: ReportsConfig{Dir: "reports"},
		Log:     LogConfig{Mode: "development"},
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
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
