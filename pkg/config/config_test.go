package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_LLMConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("LLM_BASE_URL", "https://ai.sumopod.com/v1")
	os.Setenv("LLM_API_KEY", "test-key")
	os.Setenv("LLM_MAX_RETRIES", "5")
	defer func() {
		os.Unsetenv("LLM_BASE_URL")
		os.Unsetenv("LLM_API_KEY")
		os.Unsetenv("LLM_MAX_RETRIES")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "https://ai.sumopod.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, 5, cfg.LLM.MaxRetries)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("LLM_BASE_URL")
	os.Unsetenv("LLM_MODEL")
	os.Unsetenv("MODEL_DIR")
	os.Unsetenv("RULES_PATH")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.Equal(t, time.Hour, cfg.LLM.CacheTTL)
	assert.Equal(t, "data/trained_model", cfg.Model.Dir)
	assert.Equal(t, "configs/red_flags_rules.json", cfg.Rules.Path)
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
