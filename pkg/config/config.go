package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server Server
	Redis  RedisConfig
	LLM    LLMConfig
	Model  ModelConfig
	Rules  RulesConfig
	OTEL   OTELConfig
	Env    string
}

// Server holds HTTP server configuration
type Server struct {
	Host string
	Port int
}

// RedisConfig holds the narrative cache store configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LLMConfig holds the narrative generator configuration
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	RateLimitRPM   int
	RateLimitBurst int
}

// ModelConfig holds classifier artifact configuration
type ModelConfig struct {
	Dir string
}

// RulesConfig holds the red flag rule table configuration
type RulesConfig struct {
	Path string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: Server{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8000),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		LLM: LLMConfig{
			APIKey:         getEnv("LLM_API_KEY", ""),
			BaseURL:        getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
			Model:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			Timeout:        time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
			MaxRetries:     getEnvAsInt("LLM_MAX_RETRIES", 3),
			CacheTTL:       time.Duration(getEnvAsInt("LLM_CACHE_TTL_SECONDS", 3600)) * time.Second,
			RateLimitRPM:   getEnvAsInt("LLM_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("LLM_RATE_LIMIT_BURST", 5),
		},
		Model: ModelConfig{
			Dir: getEnv("MODEL_DIR", "data/trained_model"),
		},
		Rules: RulesConfig{
			Path: getEnv("RULES_PATH", "configs/red_flags_rules.json"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "triage-ai"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Env: getEnv("APP_ENV", "development"),
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ListenAddr returns the HTTP listen address
func (s *Server) ListenAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
