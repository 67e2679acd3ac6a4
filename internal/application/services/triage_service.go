package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/medikita/triage-ai/internal/domain/entities"
	"github.com/medikita/triage-ai/internal/infrastructure/observability"
	apperrors "github.com/medikita/triage-ai/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// ExtractionResult is the output of the symptom-extraction-only operation.
type ExtractionResult struct {
	ProcessedText string          `json:"processed_text"`
	Symptoms      []string        `json:"symptoms"`
	Vitals        entities.Vitals `json:"numeric_data"`
}

// TriageService sequences normalization, classification, rule evaluation,
// urgency aggregation, and narrative augmentation into one triage decision.
// It owns the per-request Complaint and is the only component exposed to
// the transport layer.
type TriageService struct {
	normalizer    *Normalizer
	urgencyEngine *UrgencyEngine
	classifier    *Classifier
	narrative     *NarrativeService
	logger        *zerolog.Logger
}

// NewTriageService wires the engine components together.
func NewTriageService(
	normalizer *Normalizer,
	urgencyEngine *UrgencyEngine,
	classifier *Classifier,
	narrative *NarrativeService,
	logger *zerolog.Logger,
) *TriageService {
	return &TriageService{
		normalizer:    normalizer,
		urgencyEngine: urgencyEngine,
		classifier:    classifier,
		narrative:     narrative,
		logger:        logger,
	}
}

// Ready reports whether the service can classify.
func (s *TriageService) Ready() bool {
	return s.classifier.IsReady()
}

// Categories returns the category list, or a model-not-ready error.
func (s *TriageService) Categories() ([]string, error) {
	if !s.classifier.IsReady() {
		return nil, apperrors.ErrModelNotReady
	}
	return s.classifier.Categories(), nil
}

// Triage runs the full decision pipeline for one complaint. It fails fast
// with a model-not-ready error before any rule evaluation work when the
// classifier has no loaded model; all other internal failures are absorbed
// so the decision is always producible.
func (s *TriageService) Triage(ctx context.Context, rawComplaint string) (*entities.TriageDecision, error) {
	if !s.classifier.IsReady() {
		return nil, apperrors.ErrModelNotReady
	}

	ctx, span := observability.StartSpan(ctx, "triage.run")
	defer span.End()

	complaint := s.normalizer.Normalize(rawComplaint, false)
	symptoms := s.normalizer.ExtractSymptoms(rawComplaint)

	// Classification and rule evaluation are independent branches.
	var (
		wg             sync.WaitGroup
		classification *entities.ClassificationResult
		classifyErr    error
		urgency        entities.UrgencyAssessment
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		classification, classifyErr = s.classifier.PredictWithDetails(complaint.Normalized)
	}()
	go func() {
		defer wg.Done()
		urgency = s.urgencyEngine.AnalyzeUrgency(complaint)
	}()
	wg.Wait()

	if classifyErr != nil {
		return nil, classifyErr
	}

	span.SetAttributes(
		attribute.String("triage.urgency", string(urgency.Level)),
		attribute.String("triage.category", classification.Primary.Category),
	)

	// The three narrative calls are mutually independent and each may block
	// on network I/O; all must complete before the decision is returned. A
	// failure in one path falls back to template text and never aborts the
	// others.
	var summary, explanation, firstAid string
	wg.Add(3)
	go func() {
		defer wg.Done()
		summary = s.narrative.GenerateSummary(ctx, rawComplaint, classification.Primary.Category, urgency.Level, symptoms, urgency.DetectedFlags)
	}()
	go func() {
		defer wg.Done()
		explanation = s.narrative.GenerateCategoryExplanation(ctx, classification.Primary.Category, classification.Primary.Probability)
	}()
	go func() {
		defer wg.Done()
		firstAid = s.narrative.GenerateFirstAid(ctx, classification.Primary.Category, urgency.Level)
	}()
	wg.Wait()

	decision := &entities.TriageDecision{
		TriageID:  "TRG-" + uuid.NewString(),
		Timestamp: time.Now().UTC(),

		OriginalComplaint:  rawComplaint,
		ProcessedComplaint: complaint.Normalized,
		ExtractedSymptoms:  symptoms,
		Vitals:             complaint.Vitals,

		PrimaryCategory:       classification.Primary.Category,
		CategoryConfidence:    classification.Primary.Confidence,
		CategoryProbability:   classification.Primary.Probability,
		AlternativeCategories: classification.Alternatives,

		// Low classifier confidence or Red urgency both require a doctor
		// to review; urgency is unknown at classification time so the OR
		// lives here.
		RequiresDoctorReview: classification.RequiresReview || urgency.Level == entities.UrgencyRed,

		Urgency: urgency,

		Summary:             summary,
		CategoryExplanation: explanation,
		FirstAidAdvice:      firstAid,
	}

	s.logger.Info().
		Str("triage_id", decision.TriageID).
		Str("urgency", string(urgency.Level)).
		Int("score", urgency.Score).
		Str("category", classification.Primary.Category).
		Bool("requires_review", decision.RequiresDoctorReview).
		Msg("triage decision produced")

	return decision, nil
}

// ExtractOnly runs normalization and symptom extraction without
// classification or urgency analysis.
func (s *TriageService) ExtractOnly(ctx context.Context, rawComplaint string) *ExtractionResult {
	complaint := s.normalizer.Normalize(rawComplaint, false)
	return &ExtractionResult{
		ProcessedText: complaint.Normalized,
		Symptoms:      s.normalizer.ExtractSymptoms(rawComplaint),
		Vitals:        complaint.Vitals,
	}
}

// UrgencyOnly runs normalization and urgency analysis without the
// classifier, so it works even when no model is loaded.
func (s *TriageService) UrgencyOnly(ctx context.Context, rawComplaint string) entities.UrgencyAssessment {
	complaint := s.normalizer.Normalize(rawComplaint, false)
	return s.urgencyEngine.AnalyzeUrgency(complaint)
}
