package evaluation

// Accuracy computes the fraction of results the predicate accepts.
// Returns 0.0 for an empty result set.
func Accuracy(results []CaseResult, correct func(CaseResult) bool) float64 {
	if len(results) == 0 {
		return 0.0
	}

	hits := 0
	for _, r := range results {
		if correct(r) {
			hits++
		}
	}
	return float64(hits) / float64(len(results))
}

// ConfusionMatrix counts predictions by expected category. The outer key is
// the expected label, the inner key the predicted one.
func ConfusionMatrix(results []CaseResult) map[string]map[string]int {
	matrix := make(map[string]map[string]int)
	for _, r := range results {
		row, ok := matrix[r.ExpectedCategory]
		if !ok {
			row = make(map[string]int)
			matrix[r.ExpectedCategory] = row
		}
		row[r.PredictedCategory]++
	}
	return matrix
}
