package services

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// TrainOptions control the offline training run.
type TrainOptions struct {
	TestSize     float64
	Seed         int64
	MaxFeatures  int
	MaxDocFreq   float64
	Epochs       int
	LearningRate float64
	L2Penalty    float64
}

// DefaultTrainOptions returns the training configuration used in production.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		TestSize:     0.2,
		Seed:         42,
		MaxFeatures:  500,
		MaxDocFreq:   0.8,
		Epochs:       300,
		LearningRate: 0.5,
		L2Penalty:    1e-4,
	}
}

// TrainingMetrics summarizes one training run.
type TrainingMetrics struct {
	Accuracy   float64  `json:"accuracy"`
	Categories []string `json:"categories"`
	TrainSize  int      `json:"train_size"`
	TestSize   int      `json:"test_size"`
}

type sample struct {
	complaint string
	category  string
}

// Train fits the vectorizer and a class-balanced multinomial linear model on
// a CSV dataset with "complaint" and "category" columns, holding out a test
// split for evaluation. The split is stratified when every class has at
// least two samples; otherwise it falls back to a plain shuffle with a
// logged warning.
func (c *Classifier) Train(datasetPath string, opts TrainOptions, logger *zerolog.Logger) (*TrainingMetrics, error) {
	samples, err := loadDataset(datasetPath)
	if err != nil {
		return nil, err
	}
	if len(samples) < 5 {
		return nil, fmt.Errorf("dataset too small: %d samples", len(samples))
	}

	categories := collectCategories(samples)
	categoryIndex := make(map[string]int, len(categories))
	for i, cat := range categories {
		categoryIndex[cat] = i
	}

	train, test := splitDataset(samples, opts, logger)

	vectorizer := fitVectorizer(train, opts)

	c.vectorizer = vectorizer
	c.categories = categories

	// Vectorize the training matrix
	features := make([][]float64, len(train))
	labels := make([]int, len(train))
	for i, s := range train {
		features[i] = c.vectorizeWith(vectorizer, s.complaint)
		labels[i] = categoryIndex[s.category]
	}

	c.model = trainSoftmaxRegression(features, labels, len(categories), opts)
	c.loaded = true

	// Evaluate on the held-out split
	correct := 0
	for _, s := range test {
		predictions, err := c.Predict(s.complaint, 1)
		if err != nil {
			return nil, err
		}
		if predictions[0].Category == s.category {
			correct++
		}
	}
	accuracy := 0.0
	if len(test) > 0 {
		accuracy = float64(correct) / float64(len(test))
	}

	logger.Info().
		Float64("accuracy", accuracy).
		Int("categories", len(categories)).
		Int("train_samples", len(train)).
		Int("test_samples", len(test)).
		Msg("training completed")

	return &TrainingMetrics{
		Accuracy:   accuracy,
		Categories: categories,
		TrainSize:  len(train),
		TestSize:   len(test),
	}, nil
}

func (c *Classifier) vectorizeWith(v *vectorizerState, text string) []float64 {
	saved := c.vectorizer
	c.vectorizer = v
	defer func() { c.vectorizer = saved }()
	return c.vectorize(text)
}

func loadDataset(path string) ([]sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("dataset has no rows")
	}

	complaintCol, categoryCol := -1, -1
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "complaint":
			complaintCol = i
		case "category":
			categoryCol = i
		}
	}
	if complaintCol < 0 || categoryCol < 0 {
		return nil, fmt.Errorf("dataset must have complaint and category columns")
	}

	samples := make([]sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) <= complaintCol || len(record) <= categoryCol {
			continue
		}
		complaint := strings.TrimSpace(record[complaintCol])
		category := strings.TrimSpace(record[categoryCol])
		if complaint == "" || category == "" {
			continue
		}
		samples = append(samples, sample{complaint: complaint, category: category})
	}
	return samples, nil
}

func collectCategories(samples []sample) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, s := range samples {
		if _, ok := seen[s.category]; !ok {
			seen[s.category] = struct{}{}
			categories = append(categories, s.category)
		}
	}
	return categories
}

func splitDataset(samples []sample, opts TrainOptions, logger *zerolog.Logger) (train, test []sample) {
	rng := rand.New(rand.NewSource(opts.Seed))

	counts := make(map[string]int)
	for _, s := range samples {
		counts[s.category]++
	}
	canStratify := true
	for _, n := range counts {
		if n < 2 {
			canStratify = false
			break
		}
	}

	if !canStratify {
		logger.Warn().Msg("some classes have fewer than 2 samples, splitting without stratification")
		shuffled := append([]sample(nil), samples...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		cut := int(float64(len(shuffled)) * opts.TestSize)
		return shuffled[cut:], shuffled[:cut]
	}

	byCategory := make(map[string][]sample)
	for _, s := range samples {
		byCategory[s.category] = append(byCategory[s.category], s)
	}

	// Deterministic category order for a reproducible split
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		group := append([]sample(nil), byCategory[cat]...)
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})
		cut := int(float64(len(group)) * opts.TestSize)
		if cut == 0 {
			cut = 1
		}
		test = append(test, group[:cut]...)
		train = append(train, group[cut:]...)
	}
	return train, test
}

// fitVectorizer builds the fixed vocabulary (unigrams and bigrams, capped at
// MaxFeatures by corpus frequency, dropping terms present in more than
// MaxDocFreq of documents) and its smoothed IDF weights.
func fitVectorizer(train []sample, opts TrainOptions) *vectorizerState {
	docFreq := make(map[string]int)
	termFreq := make(map[string]int)

	for _, s := range train {
		ngrams := extractNgrams(s.complaint, 1, 2)
		seen := make(map[string]struct{})
		for _, term := range ngrams {
			termFreq[term]++
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				docFreq[term]++
			}
		}
	}

	n := len(train)
	maxDF := int(opts.MaxDocFreq * float64(n))

	candidates := make([]string, 0, len(termFreq))
	for term, df := range docFreq {
		if df <= maxDF {
			candidates = append(candidates, term)
		}
	}
	sort.Slice(candidates, func(a, b int) bool {
		if termFreq[candidates[a]] != termFreq[candidates[b]] {
			return termFreq[candidates[a]] > termFreq[candidates[b]]
		}
		return candidates[a] < candidates[b]
	})
	if len(candidates) > opts.MaxFeatures {
		candidates = candidates[:opts.MaxFeatures]
	}
	sort.Strings(candidates)

	vocabulary := make(map[string]int, len(candidates))
	idf := make([]float64, len(candidates))
	for i, term := range candidates {
		vocabulary[term] = i
		idf[i] = smoothIDF(n, docFreq[term])
	}

	return &vectorizerState{
		Vocabulary:  vocabulary,
		IDF:         idf,
		NgramMin:    1,
		NgramMax:    2,
		MaxFeatures: opts.MaxFeatures,
	}
}

func smoothIDF(docCount, docFreq int) float64 {
	return math.Log(float64(1+docCount)/float64(1+docFreq)) + 1
}

// trainSoftmaxRegression fits a multinomial linear model by batch gradient
// descent with class-balanced sample weights to counter category imbalance.
func trainSoftmaxRegression(features [][]float64, labels []int, classCount int, opts TrainOptions) *modelState {
	sampleCount := len(features)
	featureCount := 0
	if sampleCount > 0 {
		featureCount = len(features[0])
	}

	// weight = n_samples / (n_classes * class_count)
	classCounts := make([]float64, classCount)
	for _, label := range labels {
		classCounts[label]++
	}
	sampleWeights := make([]float64, sampleCount)
	var totalWeight float64
	for i, label := range labels {
		w := float64(sampleCount) / (float64(classCount) * classCounts[label])
		sampleWeights[i] = w
		totalWeight += w
	}

	coef := make([][]float64, classCount)
	for i := range coef {
		coef[i] = make([]float64, featureCount)
	}
	intercepts := make([]float64, classCount)

	scores := make([]float64, classCount)
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		gradCoef := make([][]float64, classCount)
		for i := range gradCoef {
			gradCoef[i] = make([]float64, featureCount)
		}
		gradIntercept := make([]float64, classCount)

		for i, x := range features {
			for k := 0; k < classCount; k++ {
				score := intercepts[k]
				for j, v := range x {
					if v != 0 {
						score += coef[k][j] * v
					}
				}
				scores[k] = score
			}
			probs := softmax(scores)

			for k := 0; k < classCount; k++ {
				delta := probs[k]
				if k == labels[i] {
					delta -= 1
				}
				delta *= sampleWeights[i]
				gradIntercept[k] += delta
				for j, v := range x {
					if v != 0 {
						gradCoef[k][j] += delta * v
					}
				}
			}
		}

		for k := 0; k < classCount; k++ {
			intercepts[k] -= opts.LearningRate * gradIntercept[k] / totalWeight
			for j := 0; j < featureCount; j++ {
				grad := gradCoef[k][j]/totalWeight + opts.L2Penalty*coef[k][j]
				coef[k][j] -= opts.LearningRate * grad
			}
		}
	}

	return &modelState{Coefficients: coef, Intercepts: intercepts}
}
