package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"docscan/internal/logger"
)

type Config struct {
	// OCR Configuration
	PrimaryProvider    string   // "vision", "documentai" or "none"
	TesseractLanguages []string // trained-data names for the fallback recognizer
	OCRTimeoutSeconds  int      // per-page, per-provider deadline

	// Google Cloud Configuration (primary provider)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Persistence Configuration
	StorePath string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		PrimaryProvider:       getEnv("DOCSCAN_PRIMARY_PROVIDER", "vision"),
		TesseractLanguages:    splitList(getEnv("DOCSCAN_TESSERACT_LANGUAGES", "")),
		OCRTimeoutSeconds:     getEnvInt("DOCSCAN_OCR_TIMEOUT", 30),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		StorePath:             getEnv("DOCSCAN_STORE_PATH", "docscan-store.json"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.PrimaryProvider {
	case "vision", "documentai", "none":
	default:
		return fmt.Errorf("DOCSCAN_PRIMARY_PROVIDER must be vision, documentai or none, got %q", c.PrimaryProvider)
	}
	if c.OCRTimeoutSeconds <= 0 {
		return fmt.Errorf("DOCSCAN_OCR_TIMEOUT must be positive, got %d", c.OCRTimeoutSeconds)
	}
	if c.StorePath == "" {
		return fmt.Errorf("DOCSCAN_STORE_PATH must not be empty")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
