package evaluation

import (
	"testing"

	"github.com/medikita/triage-ai/internal/domain/entities"
)

func TestCheckCase_RedUndertriage(t *testing.T) {
	res := CaseResult{
		CaseID:           "gc-1",
		Complaint:        "nyeri dada hebat",
		ExpectedUrgency:  entities.UrgencyRed,
		PredictedUrgency: entities.UrgencyGreen,
	}

	violations := CheckCase(res)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	if violations[0].Rule != "red_undertriage" {
		t.Errorf("expected red_undertriage, got %q", violations[0].Rule)
	}
}

func TestCheckCase_RedToYellowIsNotAViolation(t *testing.T) {
	res := CaseResult{
		ExpectedUrgency:  entities.UrgencyRed,
		PredictedUrgency: entities.UrgencyYellow,
	}
	if violations := CheckCase(res); len(violations) != 0 {
		t.Errorf("expected no violations, got %v", violations)
	}
}

func TestCheckCase_FirstAidOnRed(t *testing.T) {
	res := CaseResult{
		CaseID:           "gc-2",
		ExpectedUrgency:  entities.UrgencyRed,
		PredictedUrgency: entities.UrgencyRed,
		FirstAidPresent:  true,
	}

	violations := CheckCase(res)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	if violations[0].Rule != "first_aid_on_red" {
		t.Errorf("expected first_aid_on_red, got %q", violations[0].Rule)
	}
}

func TestCheckCase_CleanResult(t *testing.T) {
	res := CaseResult{
		ExpectedUrgency:  entities.UrgencyYellow,
		PredictedUrgency: entities.UrgencyYellow,
		FirstAidPresent:  true,
	}
	if violations := CheckCase(res); len(violations) != 0 {
		t.Errorf("expected no violations, got %v", violations)
	}
}
