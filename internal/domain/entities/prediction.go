package entities

// Confidence discretizes a classifier probability into a patient-facing band.
type Confidence string

const (
	ConfidenceHigh   Confidence = "Tinggi"
	ConfidenceMedium Confidence = "Sedang"
	ConfidenceLow    Confidence = "Rendah"
)

// ConfidenceFor maps a probability to its band: >=0.7 high, >=0.4 medium,
// otherwise low.
func ConfidenceFor(probability float64) Confidence {
	switch {
	case probability >= 0.7:
		return ConfidenceHigh
	case probability >= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// CategoryPrediction is one candidate disease category with its probability.
type CategoryPrediction struct {
	Category    string     `json:"category"`
	Probability float64    `json:"probability"`
	Confidence  Confidence `json:"confidence"`
}

// ClassificationResult is the classifier output for one complaint: the
// primary prediction plus up to two alternatives. RequiresReview is set when
// the primary probability falls below 0.5; the orchestrator additionally
// forces it for Red urgency, which is unknown at classification time.
type ClassificationResult struct {
	Primary        CategoryPrediction   `json:"primary"`
	Alternatives   []CategoryPrediction `json:"alternative_categories"`
	RequiresReview bool                 `json:"requires_review"`
}
