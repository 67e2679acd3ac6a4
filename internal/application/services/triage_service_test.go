package services

import (
	"context"
	"strings"
	"testing"

	"github.com/medikita/triage-ai/internal/domain/entities"
	apperrors "github.com/medikita/triage-ai/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTriageService(t *testing.T, classifier *Classifier, gen *fakeGenerator) *TriageService {
	t.Helper()
	logger := zerolog.Nop()
	narrative := newTestNarrativeService(gen, newMemoryCache(), 3)
	return NewTriageService(NewNormalizer(), newTestEngine(t), classifier, narrative, &logger)
}

func TestTriage_ModelNotReadyFailsFast(t *testing.T) {
	gen := &fakeGenerator{text: "Ringkasan."}
	svc := newTestTriageService(t, NewClassifier(), gen)

	_, err := svc.Triage(context.Background(), "demam tinggi")
	assert.ErrorIs(t, err, apperrors.ErrModelNotReady)
	// No narrative work happens before the readiness check.
	assert.Equal(t, 0, gen.callCount())
}

func TestTriage_YellowDecision(t *testing.T) {
	svc := newTestTriageService(t, newToyClassifier(), nil)

	decision, err := svc.Triage(context.Background(), "demam tinggi 39 derajat sudah 3 hari")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(decision.TriageID, "TRG-"))
	assert.False(t, decision.Timestamp.IsZero())
	assert.Equal(t, "demam tinggi 39 derajat sudah 3 hari", decision.OriginalComplaint)
	assert.Equal(t, "demam tinggi 39 derajat sudah 3 hari", decision.ProcessedComplaint)
	assert.Equal(t, []string{"demam"}, decision.ExtractedSymptoms)
	require.NotNil(t, decision.Vitals.Temperature)
	assert.Equal(t, 39.0, *decision.Vitals.Temperature)

	assert.Equal(t, "Infeksi", decision.PrimaryCategory)
	assert.Equal(t, entities.ConfidenceHigh, decision.CategoryConfidence)
	assert.Len(t, decision.AlternativeCategories, 1)

	assert.Equal(t, entities.UrgencyYellow, decision.Urgency.Level)
	assert.Equal(t, 60, decision.Urgency.Score)
	assert.False(t, decision.RequiresDoctorReview)

	// No generator configured: summary falls back, the optional
	// narratives stay empty.
	assert.NotEmpty(t, decision.Summary)
	assert.Contains(t, decision.Summary, "Infeksi")
	assert.Empty(t, decision.CategoryExplanation)
	assert.Empty(t, decision.FirstAidAdvice)
}

func TestTriage_RedForcesReviewAndSuppressesFirstAid(t *testing.T) {
	gen := &fakeGenerator{text: "Teks naratif."}
	svc := newTestTriageService(t, newToyClassifier(), gen)

	decision, err := svc.Triage(context.Background(), "nyeri dada dan demam 40 derajat")
	require.NoError(t, err)

	assert.Equal(t, entities.UrgencyRed, decision.Urgency.Level)
	// Classifier confidence is high, Red urgency alone forces review.
	assert.Equal(t, entities.ConfidenceHigh, decision.CategoryConfidence)
	assert.True(t, decision.RequiresDoctorReview)

	assert.Equal(t, "Teks naratif.", decision.Summary)
	assert.Equal(t, "Teks naratif.", decision.CategoryExplanation)
	assert.Empty(t, decision.FirstAidAdvice)
}

func TestTriage_GreenDecision(t *testing.T) {
	svc := newTestTriageService(t, newToyClassifier(), nil)

	decision, err := svc.Triage(context.Background(), "batuk pilek biasa, hidung meler")
	require.NoError(t, err)

	assert.Equal(t, entities.UrgencyGreen, decision.Urgency.Level)
	assert.Equal(t, 0, decision.Urgency.Score)
	assert.Equal(t, "Pernapasan", decision.PrimaryCategory)
	assert.False(t, decision.RequiresDoctorReview)
}

func TestTriage_UniqueIDs(t *testing.T) {
	svc := newTestTriageService(t, newToyClassifier(), nil)
	ctx := context.Background()

	a, err := svc.Triage(ctx, "demam")
	require.NoError(t, err)
	b, err := svc.Triage(ctx, "demam")
	require.NoError(t, err)
	assert.NotEqual(t, a.TriageID, b.TriageID)
}

func TestUrgencyOnly_WorksWithoutModel(t *testing.T) {
	svc := newTestTriageService(t, NewClassifier(), nil)

	result := svc.UrgencyOnly(context.Background(), "nyeri dada sejak 1 jam lalu")
	assert.Equal(t, entities.UrgencyRed, result.Level)
}

func TestExtractOnly(t *testing.T) {
	svc := newTestTriageService(t, NewClassifier(), nil)

	result := svc.ExtractOnly(context.Background(), "badan panas 39 derajat dan mencret")
	assert.Contains(t, result.ProcessedText, "demam")
	assert.Contains(t, result.Symptoms, "demam")
	assert.Contains(t, result.Symptoms, "diare")
	require.NotNil(t, result.Vitals.Temperature)
	assert.Equal(t, 39.0, *result.Vitals.Temperature)
}

func TestCategories(t *testing.T) {
	notReady := newTestTriageService(t, NewClassifier(), nil)
	_, err := notReady.Categories()
	assert.ErrorIs(t, err, apperrors.ErrModelNotReady)

	ready := newTestTriageService(t, newToyClassifier(), nil)
	categories, err := ready.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Infeksi", "Pernapasan"}, categories)
}

func TestReady(t *testing.T) {
	assert.False(t, newTestTriageService(t, NewClassifier(), nil).Ready())
	assert.True(t, newTestTriageService(t, newToyClassifier(), nil).Ready())
}
