package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/medikita/triage-ai/internal/domain/entities"
	apperrors "github.com/medikita/triage-ai/pkg/errors"
)

const (
	vectorizerArtifact = "vectorizer.json"
	modelArtifact      = "model.json"
	categoriesArtifact = "categories.json"
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// vectorizerState is the persisted bag-of-n-grams vectorizer: a fixed
// vocabulary with inverse-document-frequency weights over unigrams and
// bigrams.
type vectorizerState struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	NgramMin    int            `json:"ngram_min"`
	NgramMax    int            `json:"ngram_max"`
	MaxFeatures int            `json:"max_features"`
}

// modelState is the persisted multinomial linear classifier: one coefficient
// row and intercept per category.
type modelState struct {
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
}

type categoriesState struct {
	Categories []string `json:"categories"`
}

// Classifier maps normalized complaint text to a disease category with a
// probability distribution. State is loaded once at process start and is
// read-only afterwards, so it is safely shared across concurrent requests.
type Classifier struct {
	vectorizer *vectorizerState
	model      *modelState
	categories []string
	loaded     bool
}

// NewClassifier returns an unloaded classifier. Callers must LoadModel (or
// Train) before classifying.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// IsReady reports whether a model is loaded.
func (c *Classifier) IsReady() bool {
	return c.loaded
}

// Categories returns the category label list.
func (c *Classifier) Categories() []string {
	return c.categories
}

// LoadModel reads the vectorizer, model weights, and category list artifacts
// from dir. Absence of any one artifact means the model is not loaded.
func (c *Classifier) LoadModel(dir string) error {
	var vectorizer vectorizerState
	if err := readArtifact(filepath.Join(dir, vectorizerArtifact), &vectorizer); err != nil {
		return fmt.Errorf("load vectorizer: %w", err)
	}

	var model modelState
	if err := readArtifact(filepath.Join(dir, modelArtifact), &model); err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	var categories categoriesState
	if err := readArtifact(filepath.Join(dir, categoriesArtifact), &categories); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	if len(model.Coefficients) != len(categories.Categories) {
		return fmt.Errorf("model has %d coefficient rows for %d categories",
			len(model.Coefficients), len(categories.Categories))
	}

	c.vectorizer = &vectorizer
	c.model = &model
	c.categories = categories.Categories
	c.loaded = true
	return nil
}

// SaveModel writes the three artifacts to dir.
func (c *Classifier) SaveModel(dir string) error {
	if !c.loaded {
		return fmt.Errorf("cannot save unloaded model")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeArtifact(filepath.Join(dir, vectorizerArtifact), c.vectorizer); err != nil {
		return err
	}
	if err := writeArtifact(filepath.Join(dir, modelArtifact), c.model); err != nil {
		return err
	}
	return writeArtifact(filepath.Join(dir, categoriesArtifact), categoriesState{Categories: c.categories})
}

// Predict returns the topK category predictions for a normalized complaint,
// sorted by descending probability. It fails with a model-not-ready error
// when no model is loaded.
func (c *Classifier) Predict(normalizedText string, topK int) ([]entities.CategoryPrediction, error) {
	if !c.loaded {
		return nil, apperrors.ErrModelNotReady
	}

	features := c.vectorize(normalizedText)
	probs := c.predictProba(features)

	indices := make([]int, len(probs))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return probs[indices[a]] > probs[indices[b]]
	})

	if topK > len(indices) {
		topK = len(indices)
	}

	predictions := make([]entities.CategoryPrediction, 0, topK)
	for _, idx := range indices[:topK] {
		predictions = append(predictions, entities.CategoryPrediction{
			Category:    c.categories[idx],
			Probability: probs[idx],
			Confidence:  entities.ConfidenceFor(probs[idx]),
		})
	}

	return predictions, nil
}

// PredictWithDetails returns the primary prediction, up to two alternatives,
// and the low-confidence review flag.
func (c *Classifier) PredictWithDetails(normalizedText string) (*entities.ClassificationResult, error) {
	predictions, err := c.Predict(normalizedText, 3)
	if err != nil {
		return nil, err
	}

	primary := predictions[0]
	alternatives := predictions[1:]

	return &entities.ClassificationResult{
		Primary:        primary,
		Alternatives:   alternatives,
		RequiresReview: primary.Probability < 0.5,
	}, nil
}

// vectorize builds the l2-normalized tf-idf feature vector for one text.
func (c *Classifier) vectorize(text string) []float64 {
	features := make([]float64, len(c.vectorizer.IDF))

	for _, term := range extractNgrams(text, c.vectorizer.NgramMin, c.vectorizer.NgramMax) {
		if idx, ok := c.vectorizer.Vocabulary[term]; ok {
			features[idx]++
		}
	}

	var sumSquares float64
	for i, tf := range features {
		if tf > 0 {
			features[i] = tf * c.vectorizer.IDF[i]
			sumSquares += features[i] * features[i]
		}
	}

	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for i := range features {
			features[i] /= norm
		}
	}

	return features
}

// predictProba computes softmax over the per-category linear scores.
func (c *Classifier) predictProba(features []float64) []float64 {
	scores := make([]float64, len(c.model.Coefficients))
	for i, row := range c.model.Coefficients {
		score := c.model.Intercepts[i]
		for j, w := range row {
			if features[j] != 0 {
				score += w * features[j]
			}
		}
		scores[i] = score
	}
	return softmax(scores)
}

func softmax(scores []float64) []float64 {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// extractNgrams produces lowercase word n-grams of the configured sizes.
func extractNgrams(text string, ngramMin, ngramMax int) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)

	var ngrams []string
	for n := ngramMin; n <= ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			ngrams = append(ngrams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return ngrams
}

func readArtifact(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func writeArtifact(path string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
