// Package config loads application configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env    string
	Server ServerConfig
	DBPath string
	OCR    OCRConfig
	Log    LogConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type OCRConfig struct {
	APIKey             string
	Model              string
	Timeout            time.Duration
	RateLimitPerMinute int
	RateLimitBurst     int
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, with a .env file as the
// lowest-priority source. A missing GEMINI_API_KEY is not an error: the
// server runs without the scan endpoint.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	// Receipt recognition holds the response open while the model streams,
	// so the write timeout is generous.
	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	cfg.DBPath = getEnv("DB_PATH", "data/tripledger.db")

	ocrTimeout, err := parseDurationEnv("OCR_TIMEOUT", 90*time.Second)
	if err != nil {
		return cfg, err
	}

	ocrRateLimitPerMinute, err := parseIntEnv("OCR_RATE_LIMIT_PER_MINUTE", 10)
	if err != nil {
		return cfg, err
	}

	ocrRateLimitBurst, err := parseIntEnv("OCR_RATE_LIMIT_BURST", 3)
	if err != nil {
		return cfg, err
	}

	cfg.OCR = OCRConfig{
		APIKey:             getEnv("GEMINI_API_KEY", ""),
		Model:              getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		Timeout:            ocrTimeout,
		RateLimitPerMinute: ocrRateLimitPerMinute,
		RateLimitBurst:     ocrRateLimitBurst,
	}

	cfg.Log = LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}

	if c.OCR.RateLimitPerMinute <= 0 {
		return fmt.Errorf("OCR_RATE_LIMIT_PER_MINUTE must be greater than 0")
	}

	if c.OCR.RateLimitBurst <= 0 {
		return fmt.Errorf("OCR_RATE_LIMIT_BURST must be greater than 0")
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
