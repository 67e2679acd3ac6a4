package entities

import "time"

// TriageDecision is the engine's sole output: the complaint, extracted
// evidence, classification, urgency, and narrative text. Every field is
// populated on success; FirstAidAdvice is intentionally empty when the
// urgency level is Red.
type TriageDecision struct {
	TriageID  string    `json:"triage_id"`
	Timestamp time.Time `json:"timestamp"`

	OriginalComplaint  string   `json:"original_complaint"`
	ProcessedComplaint string   `json:"processed_complaint"`
	ExtractedSymptoms  []string `json:"extracted_symptoms"`
	Vitals             Vitals   `json:"numeric_data"`

	PrimaryCategory       string               `json:"primary_category"`
	CategoryConfidence    Confidence           `json:"category_confidence"`
	CategoryProbability   float64              `json:"category_probability"`
	AlternativeCategories []CategoryPrediction `json:"alternative_categories"`
	RequiresDoctorReview  bool                 `json:"requires_doctor_review"`

	Urgency UrgencyAssessment `json:"urgency"`

	Summary             string `json:"summary"`
	CategoryExplanation string `json:"category_explanation,omitempty"`
	FirstAidAdvice      string `json:"first_aid_advice,omitempty"`
}
