package evaluation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medikita/triage-ai/internal/domain/entities"
)

func writeCases(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "golden_cases.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGoldenCases_Valid(t *testing.T) {
	path := writeCases(t, `[
		{"id":"gc-1","complaint":"nyeri dada","expected_category":"Jantung","expected_urgency":"Red","difficulty":"easy"},
		{"id":"gc-2","complaint":"batuk pilek","expected_category":"Pernapasan","expected_urgency":"Green","difficulty":"medium"}
	]`)

	cases, err := LoadGoldenCases(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].ExpectedUrgency != entities.UrgencyRed {
		t.Errorf("expected Red, got %q", cases[0].ExpectedUrgency)
	}
	if err := ValidateGoldenCases(cases); err != nil {
		t.Errorf("expected valid cases, got %v", err)
	}
}

func TestLoadGoldenCases_MissingFile(t *testing.T) {
	if _, err := LoadGoldenCases("/nonexistent/cases.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadGoldenCases_MalformedJSON(t *testing.T) {
	path := writeCases(t, `{not json`)
	if _, err := LoadGoldenCases(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidateGoldenCases_DuplicateID(t *testing.T) {
	cases := []GoldenCase{
		{ID: "gc-1", Complaint: "demam", ExpectedCategory: "Infeksi", ExpectedUrgency: entities.UrgencyGreen, Difficulty: "easy"},
		{ID: "gc-1", Complaint: "batuk", ExpectedCategory: "Pernapasan", ExpectedUrgency: entities.UrgencyGreen, Difficulty: "easy"},
	}
	err := ValidateGoldenCases(cases)
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestValidateGoldenCases_InvalidUrgency(t *testing.T) {
	cases := []GoldenCase{
		{ID: "gc-1", Complaint: "demam", ExpectedCategory: "Infeksi", ExpectedUrgency: "Purple", Difficulty: "easy"},
	}
	err := ValidateGoldenCases(cases)
	if err == nil || !strings.Contains(err.Error(), "invalid expected urgency") {
		t.Errorf("expected urgency error, got %v", err)
	}
}

func TestValidateGoldenCases_InvalidDifficulty(t *testing.T) {
	cases := []GoldenCase{
		{ID: "gc-1", Complaint: "demam", ExpectedCategory: "Infeksi", ExpectedUrgency: entities.UrgencyGreen, Difficulty: "extreme"},
	}
	err := ValidateGoldenCases(cases)
	if err == nil || !strings.Contains(err.Error(), "invalid difficulty") {
		t.Errorf("expected difficulty error, got %v", err)
	}
}

func TestValidateGoldenCases_MissingComplaint(t *testing.T) {
	cases := []GoldenCase{
		{ID: "gc-1", ExpectedCategory: "Infeksi", ExpectedUrgency: entities.UrgencyGreen, Difficulty: "easy"},
	}
	if err := ValidateGoldenCases(cases); err == nil {
		t.Error("expected missing complaint error")
	}
}
