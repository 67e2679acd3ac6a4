package evaluation

import (
	"time"

	"github.com/medikita/triage-ai/internal/domain/entities"
)

// GoldenCase represents a labeled complaint with expected outcomes.
type GoldenCase struct {
	ID               string                `json:"id"`
	Complaint        string                `json:"complaint"`
	ExpectedCategory string                `json:"expected_category"`
	ExpectedUrgency  entities.UrgencyLevel `json:"expected_urgency"`
	Difficulty       string                `json:"difficulty"` // easy, medium, hard
}

// CaseResult holds the evaluation outcome for a single golden case.
type CaseResult struct {
	CaseID            string
	Complaint         string
	PredictedCategory string
	PredictedUrgency  entities.UrgencyLevel
	ExpectedCategory  string
	ExpectedUrgency   entities.UrgencyLevel
	RequiresReview    bool
	FirstAidPresent   bool
	Latency           time.Duration
}

// CategoryCorrect reports whether the predicted category matches the label.
func (r CaseResult) CategoryCorrect() bool {
	return r.PredictedCategory == r.ExpectedCategory
}

// UrgencyCorrect reports whether the predicted tier matches the label.
func (r CaseResult) UrgencyCorrect() bool {
	return r.PredictedUrgency == r.ExpectedUrgency
}

// EvalSummary holds aggregate metrics across all golden cases.
type EvalSummary struct {
	TotalCases       int
	CategoryAccuracy float64
	UrgencyAccuracy  float64
	AvgLatency       time.Duration
	ReviewRate       float64
	ByUrgency        map[entities.UrgencyLevel]*TierSummary
	Violations       []Violation
}

// TierSummary holds metrics grouped by expected urgency tier.
type TierSummary struct {
	Count            int
	CategoryAccuracy float64
	UrgencyAccuracy  float64
}
