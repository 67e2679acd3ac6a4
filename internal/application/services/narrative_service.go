package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/medikita/triage-ai/internal/domain/entities"
	"github.com/medikita/triage-ai/internal/domain/providers"
	"github.com/medikita/triage-ai/internal/infrastructure/observability"
	"github.com/medikita/triage-ai/pkg/retry"
	"github.com/rs/zerolog"
)

const (
	summaryMaxTokens     = 300
	explanationMaxTokens = 150
	firstAidMaxTokens    = 200
)

// NarrativeStats exposes running process-lifetime counters for the service.
type NarrativeStats struct {
	IsAvailable  bool   `json:"is_available"`
	CacheSize    int64  `json:"cache_size"`
	SuccessCount int64  `json:"success_count"`
	ErrorCount   int64  `json:"error_count"`
	SuccessRate  string `json:"success_rate"`
}

// NarrativeService enriches a triage decision with externally generated
// narrative text. Every lookup is cache-first; generation failures are
// retried with exponential backoff and then absorbed into deterministic
// fallback text, so the service itself never fails a request.
type NarrativeService struct {
	generator providers.NarrativeGenerator
	cache     providers.CacheProvider
	retryCfg  retry.Config
	cacheTTL  time.Duration
	metrics   *observability.Metrics
	logger    *zerolog.Logger

	successCount atomic.Int64
	errorCount   atomic.Int64
}

// NarrativeOptions tune retry and cache behavior.
type NarrativeOptions struct {
	MaxRetries int
	CacheTTL   time.Duration

	// Sleep overrides the inter-attempt wait, for deterministic tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewNarrativeService creates the augmentation service. A nil generator
// means narrative generation is unavailable and every call returns fallback
// or empty text; a nil cache disables caching.
func NewNarrativeService(
	generator providers.NarrativeGenerator,
	cache providers.CacheProvider,
	opts NarrativeOptions,
	metrics *observability.Metrics,
	logger *zerolog.Logger,
) *NarrativeService {
	retryCfg := retry.DefaultConfig()
	if opts.MaxRetries > 0 {
		retryCfg.MaxAttempts = opts.MaxRetries
	}
	if opts.Sleep != nil {
		retryCfg.Sleep = opts.Sleep
	}

	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}

	return &NarrativeService{
		generator: generator,
		cache:     cache,
		retryCfg:  retryCfg,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// IsAvailable reports whether an external generator is configured.
func (s *NarrativeService) IsAvailable() bool {
	return s.generator != nil
}

// GenerateSummary returns a narrative summary of the triage result. It
// never fails: when the generator is unavailable or exhausts its retries
// the deterministic template summary is returned instead.
func (s *NarrativeService) GenerateSummary(
	ctx context.Context,
	complaint string,
	category string,
	urgency entities.UrgencyLevel,
	symptoms []string,
	flags []entities.DetectedFlag,
) string {
	if !s.IsAvailable() {
		return fallbackSummary(category, urgency, symptoms)
	}

	key := cacheKey("summary", complaint, category, string(urgency), strings.Join(symptoms, ","))
	prompt := buildSummaryPrompt(complaint, category, urgency, symptoms, flags)

	text, ok := s.generate(ctx, "summary", key, summarySystemPrompt, prompt, summaryMaxTokens)
	if !ok {
		return fallbackSummary(category, urgency, symptoms)
	}
	return text
}

// GenerateCategoryExplanation returns an explanation of the predicted
// category, or an empty string when generation is unavailable or fails.
func (s *NarrativeService) GenerateCategoryExplanation(ctx context.Context, category string, probability float64) string {
	if !s.IsAvailable() {
		return ""
	}

	key := cacheKey("explanation", category, fmt.Sprintf("%.3f", probability))
	prompt := buildExplanationPrompt(category, probability)

	text, _ := s.generate(ctx, "explanation", key, explanationSystemPrompt, prompt, explanationMaxTokens)
	return text
}

// GenerateFirstAid returns home-care advice for non-critical cases. First
// aid is never generated for Red urgency: returning self-care guidance for
// an emergency is a safety violation.
func (s *NarrativeService) GenerateFirstAid(ctx context.Context, category string, urgency entities.UrgencyLevel) string {
	if !s.IsAvailable() || urgency == entities.UrgencyRed {
		return ""
	}

	key := cacheKey("firstaid", category, string(urgency))
	prompt := buildFirstAidPrompt(category, urgency)

	text, _ := s.generate(ctx, "first_aid", key, firstAidSystemPrompt, prompt, firstAidMaxTokens)
	return text
}

// Stats returns the process-lifetime counters.
func (s *NarrativeService) Stats(ctx context.Context) NarrativeStats {
	stats := NarrativeStats{
		IsAvailable:  s.IsAvailable(),
		SuccessCount: s.successCount.Load(),
		ErrorCount:   s.errorCount.Load(),
		SuccessRate:  "N/A",
	}

	if total := stats.SuccessCount + stats.ErrorCount; total > 0 {
		stats.SuccessRate = fmt.Sprintf("%.1f%%", float64(stats.SuccessCount)/float64(total)*100)
	}

	if s.cache != nil {
		if size, err := s.cache.Size(ctx); err == nil {
			stats.CacheSize = size
		}
	}

	return stats
}

// generate runs the cache-first, retried generation flow for one narrative.
// The bool result is false when retries were exhausted.
func (s *NarrativeService) generate(ctx context.Context, kind, key, systemPrompt, userPrompt string, maxTokens int) (string, bool) {
	if cached, ok := s.cacheGet(ctx, key); ok {
		s.countOutcome(kind, "cache_hit")
		return cached, true
	}

	var text string
	err := retry.DoWithLog(ctx, s.retryCfg, func() error {
		result, err := s.generator.Generate(ctx, systemPrompt, userPrompt, maxTokens)
		if err != nil {
			s.errorCount.Add(1)
			return err
		}
		s.successCount.Add(1)
		text = result
		return nil
	}, func(attempt int, err error, nextDelay time.Duration) {
		s.logger.Warn().Err(err).
			Str("kind", kind).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("narrative generation failed, retrying")
	})
	if err != nil {
		s.logger.Error().Err(err).Str("kind", kind).
			Msg("narrative generation exhausted retries, using fallback")
		s.countOutcome(kind, "fallback")
		return "", false
	}

	s.cacheSet(ctx, key, text)
	s.countOutcome(kind, "success")
	return text, true
}

// cacheGet treats every cache failure as a miss.
func (s *NarrativeService) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil || value == "" {
		if s.metrics != nil {
			s.metrics.CacheMissCount.Inc()
		}
		return "", false
	}
	if s.metrics != nil {
		s.metrics.CacheHitCount.Inc()
	}
	return value, true
}

// cacheSet failures are logged and swallowed.
func (s *NarrativeService) cacheSet(ctx context.Context, key, value string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("narrative cache write failed")
	}
}

func (s *NarrativeService) countOutcome(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.NarrativeRequests.WithLabelValues(kind, outcome).Inc()
	}
}

// cacheKey derives a stable content hash from every input that determines
// the narrative.
func cacheKey(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "narrative:" + hex.EncodeToString(sum[:])
}
