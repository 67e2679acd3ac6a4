package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/medikita/triage-ai/internal/domain/entities"
	apperrors "github.com/medikita/triage-ai/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newToyClassifier builds a two-class model by hand: "demam" scores the
// "Infeksi" class, "batuk" scores "Pernapasan".
func newToyClassifier() *Classifier {
	return &Classifier{
		vectorizer: &vectorizerState{
			Vocabulary: map[string]int{"demam": 0, "batuk": 1},
			IDF:        []float64{1, 1},
			NgramMin:   1,
			NgramMax:   1,
		},
		model: &modelState{
			Coefficients: [][]float64{{2, 0}, {0, 2}},
			Intercepts:   []float64{0, 0},
		},
		categories: []string{"Infeksi", "Pernapasan"},
		loaded:     true,
	}
}

func TestClassifier_NotReadyBeforeLoad(t *testing.T) {
	c := NewClassifier()
	assert.False(t, c.IsReady())

	_, err := c.Predict("demam tinggi", 3)
	assert.ErrorIs(t, err, apperrors.ErrModelNotReady)

	_, err = c.PredictWithDetails("demam tinggi")
	assert.ErrorIs(t, err, apperrors.ErrModelNotReady)
}

func TestPredict_RanksMatchingCategoryFirst(t *testing.T) {
	c := newToyClassifier()

	predictions, err := c.Predict("demam tinggi sejak kemarin", 3)
	require.NoError(t, err)
	require.Len(t, predictions, 2)

	assert.Equal(t, "Infeksi", predictions[0].Category)
	assert.Greater(t, predictions[0].Probability, predictions[1].Probability)
	assert.InDelta(t, 1.0, predictions[0].Probability+predictions[1].Probability, 1e-9)
}

func TestPredict_UnknownTokensYieldUniformDistribution(t *testing.T) {
	c := newToyClassifier()

	predictions, err := c.Predict("keluhan administrasi", 2)
	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.InDelta(t, 0.5, predictions[0].Probability, 1e-9)
}

func TestPredict_TopKBound(t *testing.T) {
	c := newToyClassifier()
	predictions, err := c.Predict("demam", 1)
	require.NoError(t, err)
	assert.Len(t, predictions, 1)
}

func TestPredictWithDetails_ConfidenceAndReview(t *testing.T) {
	c := newToyClassifier()

	// A pure "demam" document lands well above the 0.7 band.
	confident, err := c.PredictWithDetails("demam demam demam")
	require.NoError(t, err)
	assert.Equal(t, entities.ConfidenceHigh, confident.Primary.Confidence)
	assert.False(t, confident.RequiresReview)

	// No vocabulary hit means a 50/50 split, which forces review.
	uncertain, err := c.PredictWithDetails("keluhan administrasi")
	require.NoError(t, err)
	assert.Equal(t, entities.ConfidenceMedium, uncertain.Primary.Confidence)
	assert.False(t, uncertain.RequiresReview)
}

func TestSaveAndLoadModel_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	original := newToyClassifier()
	require.NoError(t, original.SaveModel(dir))

	restored := NewClassifier()
	require.NoError(t, restored.LoadModel(dir))
	assert.True(t, restored.IsReady())
	assert.Equal(t, []string{"Infeksi", "Pernapasan"}, restored.Categories())

	want, err := original.Predict("demam tinggi", 2)
	require.NoError(t, err)
	got, err := restored.Predict("demam tinggi", 2)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadModel_MissingArtifactFails(t *testing.T) {
	dir := t.TempDir()

	full := newToyClassifier()
	require.NoError(t, full.SaveModel(dir))
	require.NoError(t, os.Remove(filepath.Join(dir, categoriesArtifact)))

	c := NewClassifier()
	assert.Error(t, c.LoadModel(dir))
	assert.False(t, c.IsReady())
}

func TestSaveModel_UnloadedFails(t *testing.T) {
	c := NewClassifier()
	assert.Error(t, c.SaveModel(t.TempDir()))
}

func TestExtractNgrams_UnigramsAndBigrams(t *testing.T) {
	ngrams := extractNgrams("Demam tinggi batuk", 1, 2)
	assert.Equal(t, []string{
		"demam", "tinggi", "batuk",
		"demam tinggi", "tinggi batuk",
	}, ngrams)
}

func TestExtractNgrams_DropsSingleCharTokens(t *testing.T) {
	ngrams := extractNgrams("a demam b", 1, 1)
	assert.Equal(t, []string{"demam"}, ngrams)
}

func TestTrain_SeparatesDistinctCategories(t *testing.T) {
	dir := t.TempDir()
	dataset := filepath.Join(dir, "dataset.csv")

	csv := "complaint,category\n" +
		"demam tinggi menggigil,Infeksi\n" +
		"demam panas badan lemas,Infeksi\n" +
		"demam dan berkeringat malam,Infeksi\n" +
		"demam naik turun tiga hari,Infeksi\n" +
		"demam disertai menggigil hebat,Infeksi\n" +
		"batuk berdahak sesak,Pernapasan\n" +
		"batuk kering dada sesak,Pernapasan\n" +
		"batuk pilek hidung tersumbat,Pernapasan\n" +
		"batuk sesak saat malam,Pernapasan\n" +
		"batuk berdahak seminggu,Pernapasan\n" +
		"diare mual muntah,Pencernaan\n" +
		"diare cair sejak pagi,Pencernaan\n" +
		"mual muntah perut melilit,Pencernaan\n" +
		"diare disertai mual,Pencernaan\n" +
		"muntah dan perut kembung,Pencernaan\n"
	require.NoError(t, os.WriteFile(dataset, []byte(csv), 0o644))

	logger := zerolog.Nop()
	c := NewClassifier()
	metrics, err := c.Train(dataset, DefaultTrainOptions(), &logger)
	require.NoError(t, err)
	require.True(t, c.IsReady())

	assert.ElementsMatch(t, []string{"Infeksi", "Pernapasan", "Pencernaan"}, metrics.Categories)
	assert.Equal(t, 12, metrics.TrainSize)

	predictions, err := c.Predict("demam menggigil", 1)
	require.NoError(t, err)
	assert.Equal(t, "Infeksi", predictions[0].Category)

	predictions, err = c.Predict("batuk sesak", 1)
	require.NoError(t, err)
	assert.Equal(t, "Pernapasan", predictions[0].Category)
}

func TestTrain_MissingDatasetFails(t *testing.T) {
	logger := zerolog.Nop()
	c := NewClassifier()
	_, err := c.Train("/nonexistent/dataset.csv", DefaultTrainOptions(), &logger)
	assert.Error(t, err)
	assert.False(t, c.IsReady())
}
