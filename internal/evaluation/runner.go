package evaluation

import (
	"context"
	"time"

	"github.com/medikita/triage-ai/internal/domain/entities"
)

// TriageProvider is the slice of the triage service the runner needs.
type TriageProvider interface {
	Triage(ctx context.Context, complaint string) (*entities.TriageDecision, error)
}

// Runner runs evaluation across a set of golden cases.
type Runner struct {
	triage TriageProvider
}

func NewRunner(triage TriageProvider) *Runner {
	return &Runner{triage: triage}
}

// Run triages every golden case and aggregates accuracy, latency, and
// guardrail violations. A failed triage call fails the whole run: an
// evaluation with silently skipped cases is not comparable to previous runs.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase) (*EvalSummary, error) {
	summary := &EvalSummary{
		TotalCases: len(cases),
		ByUrgency:  make(map[entities.UrgencyLevel]*TierSummary),
	}

	var results []CaseResult
	for _, gc := range cases {
		start := time.Now()
		decision, err := r.triage.Triage(ctx, gc.Complaint)
		if err != nil {
			return nil, err
		}

		result := CaseResult{
			CaseID:            gc.ID,
			Complaint:         gc.Complaint,
			PredictedCategory: decision.PrimaryCategory,
			PredictedUrgency:  decision.Urgency.Level,
			ExpectedCategory:  gc.ExpectedCategory,
			ExpectedUrgency:   gc.ExpectedUrgency,
			RequiresReview:    decision.RequiresDoctorReview,
			FirstAidPresent:   decision.FirstAidAdvice != "",
			Latency:           time.Since(start),
		}
		results = append(results, result)

		summary.Violations = append(summary.Violations, CheckCase(result)...)
		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary, results)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res CaseResult) {
	s.AvgLatency += res.Latency
	if res.RequiresReview {
		s.ReviewRate++
	}

	if _, ok := s.ByUrgency[res.ExpectedUrgency]; !ok {
		s.ByUrgency[res.ExpectedUrgency] = &TierSummary{}
	}
	ts := s.ByUrgency[res.ExpectedUrgency]
	ts.Count++
	if res.CategoryCorrect() {
		ts.CategoryAccuracy++
	}
	if res.UrgencyCorrect() {
		ts.UrgencyAccuracy++
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary, results []CaseResult) {
	s.CategoryAccuracy = Accuracy(results, CaseResult.CategoryCorrect)
	s.UrgencyAccuracy = Accuracy(results, CaseResult.UrgencyCorrect)

	if s.TotalCases > 0 {
		s.AvgLatency /= time.Duration(s.TotalCases)
		s.ReviewRate /= float64(s.TotalCases)
	}

	for _, ts := range s.ByUrgency {
		if ts.Count > 0 {
			n := float64(ts.Count)
			ts.CategoryAccuracy /= n
			ts.UrgencyAccuracy /= n
		}
	}
}
