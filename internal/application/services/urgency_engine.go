package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/medikita/triage-ai/internal/domain/entities"
	"github.com/rs/zerolog"
)

// ruleTable mirrors the structure of the red flag rules document.
type ruleTable struct {
	CriticalRedFlags   []entities.FlagRule `json:"critical_red_flags"`
	WarningYellowFlags []entities.FlagRule `json:"warning_yellow_flags"`
	GreenFlags         []entities.FlagRule `json:"green_flags"`
}

// UrgencyEngine evaluates keyword rules and numeric thresholds against a
// normalized complaint and aggregates the detected flags into one urgency
// assessment. Rules are immutable after construction.
type UrgencyEngine struct {
	redRules    []entities.FlagRule
	yellowRules []entities.FlagRule
}

// NewUrgencyEngine loads the rule table from path. A missing or unreadable
// rule source degrades to an engine with zero rules rather than failing:
// every complaint then resolves to Green, and the condition is logged.
func NewUrgencyEngine(path string, logger *zerolog.Logger) *UrgencyEngine {
	engine := &UrgencyEngine{}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).
			Msg("red flag rules unavailable, running with zero rules")
		return engine
	}

	var table ruleTable
	if err := json.Unmarshal(data, &table); err != nil {
		logger.Warn().Err(err).Str("path", path).
			Msg("red flag rules unreadable, running with zero rules")
		return engine
	}

	for i := range table.CriticalRedFlags {
		table.CriticalRedFlags[i].Severity = entities.SeverityCritical
		table.CriticalRedFlags[i].Urgency = entities.UrgencyRed
	}
	for i := range table.WarningYellowFlags {
		table.WarningYellowFlags[i].Severity = entities.SeverityWarning
		table.WarningYellowFlags[i].Urgency = entities.UrgencyYellow
	}

	engine.redRules = table.CriticalRedFlags
	engine.yellowRules = table.WarningYellowFlags

	logger.Info().
		Int("red_rules", len(engine.redRules)).
		Int("yellow_rules", len(engine.yellowRules)).
		Msg("red flag rules loaded")

	return engine
}

// RuleCount returns the number of loaded keyword rules.
func (e *UrgencyEngine) RuleCount() int {
	return len(e.redRules) + len(e.yellowRules)
}

// DetectFlags evaluates the complaint in a fixed order: critical keyword
// rules first, warning keyword rules only when no critical rule matched,
// then numeric thresholds unconditionally. Each rule contributes at most one
// flag; its first matching keyword wins.
func (e *UrgencyEngine) DetectFlags(complaint *entities.Complaint) []entities.DetectedFlag {
	text := strings.ToLower(complaint.Normalized)
	var detected []entities.DetectedFlag

	for _, rule := range e.redRules {
		if flag, ok := matchRule(rule, text); ok {
			detected = append(detected, flag)
		}
	}

	// Warning rules are skipped entirely once any critical rule fired.
	if len(detected) == 0 {
		for _, rule := range e.yellowRules {
			if flag, ok := matchRule(rule, text); ok {
				detected = append(detected, flag)
			}
		}
	}

	detected = append(detected, checkNumericThresholds(complaint.Vitals)...)

	return detected
}

func matchRule(rule entities.FlagRule, text string) (entities.DetectedFlag, bool) {
	for _, keyword := range rule.Keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return entities.DetectedFlag{
				Urgency:  rule.Urgency,
				Keyword:  keyword,
				Reason:   rule.Reason,
				Action:   rule.Action,
				Severity: rule.Severity,
			}, true
		}
	}
	return entities.DetectedFlag{}, false
}

// checkNumericThresholds converts extracted vitals into flags. Numeric flags
// augment keyword flags and are never suppressed by the red short-circuit.
func checkNumericThresholds(vitals entities.Vitals) []entities.DetectedFlag {
	var flags []entities.DetectedFlag

	if vitals.Temperature != nil {
		temp := *vitals.Temperature
		switch {
		case temp >= 39.5:
			flags = append(flags, entities.DetectedFlag{
				Urgency:  entities.UrgencyRed,
				Keyword:  fmt.Sprintf("demam tinggi (%.1f°C)", temp),
				Reason:   "Demam sangat tinggi, risiko kejang/komplikasi",
				Action:   "Segera ke IGD",
				Severity: entities.SeverityCritical,
			})
		case temp >= 38.5:
			flags = append(flags, entities.DetectedFlag{
				Urgency:  entities.UrgencyYellow,
				Keyword:  fmt.Sprintf("demam tinggi (%.1f°C)", temp),
				Reason:   "Demam tinggi perlu evaluasi",
				Action:   "Konsultasi dokter dalam 24 jam",
				Severity: entities.SeverityWarning,
			})
		}
	}

	if vitals.BloodPressure != nil {
		systolic := vitals.BloodPressure.Systolic
		diastolic := vitals.BloodPressure.Diastolic
		switch {
		case systolic >= 180 || diastolic >= 120:
			flags = append(flags, entities.DetectedFlag{
				Urgency:  entities.UrgencyRed,
				Keyword:  fmt.Sprintf("hipertensi emergency (%d/%d)", systolic, diastolic),
				Reason:   "Krisis hipertensi",
				Action:   "Segera ke IGD",
				Severity: entities.SeverityCritical,
			})
		case systolic >= 160 || diastolic >= 100:
			flags = append(flags, entities.DetectedFlag{
				Urgency:  entities.UrgencyYellow,
				Keyword:  fmt.Sprintf("hipertensi tinggi (%d/%d)", systolic, diastolic),
				Reason:   "Tekanan darah tinggi perlu evaluasi",
				Action:   "Konsultasi dokter segera",
				Severity: entities.SeverityWarning,
			})
		}
	}

	if vitals.DurationDays != nil && *vitals.DurationDays >= 14 {
		flags = append(flags, entities.DetectedFlag{
			Urgency:  entities.UrgencyYellow,
			Keyword:  fmt.Sprintf("gejala berkepanjangan (%d hari)", *vitals.DurationDays),
			Reason:   "Gejala kronis perlu evaluasi medis",
			Action:   "Konsultasi dokter",
			Severity: entities.SeverityWarning,
		})
	}

	return flags
}

// Aggregate combines detected flags into a single urgency assessment using a
// first-match-wins precedence table. Two or more yellow flags escalate to
// Red: independent moderate concerns compound into urgent risk even without
// a single critical marker.
func (e *UrgencyEngine) Aggregate(flags []entities.DetectedFlag) entities.UrgencyAssessment {
	if len(flags) == 0 {
		return entities.UrgencyAssessment{
			Level:          entities.UrgencyGreen,
			Score:          0,
			Description:    "Gejala ringan / non-urgent",
			Recommendation: "Istirahat dan observasi. Konsultasi dokter jika memburuk.",
			DetectedFlags:  []entities.DetectedFlag{},
			FlagsSummary:   entities.FlagsSummary{},
		}
	}

	redCount := 0
	yellowCount := 0
	for _, flag := range flags {
		switch flag.Urgency {
		case entities.UrgencyRed:
			redCount++
		case entities.UrgencyYellow:
			yellowCount++
		}
	}

	var (
		level          entities.UrgencyLevel
		score          int
		description    string
		recommendation string
	)

	switch {
	case redCount > 0:
		level = entities.UrgencyRed
		score = 90 + min(redCount*5, 10)
		description = "URGENT - Memerlukan penanganan medis segera"
		recommendation = "Segera ke IGD atau hubungi ambulans (119)"
	case yellowCount >= 2:
		// Multiple yellow flags escalate to red.
		level = entities.UrgencyRed
		score = min(80+yellowCount*2, 100)
		description = "URGENT - Kombinasi gejala memerlukan evaluasi segera"
		recommendation = "Segera ke dokter atau IGD"
	case yellowCount > 0:
		level = entities.UrgencyYellow
		score = 50 + yellowCount*10
		description = "Perlu perhatian medis"
		recommendation = "Konsultasi dokter dalam 24 jam"
	default:
		level = entities.UrgencyGreen
		score = 20
		description = "Gejala ringan"
		recommendation = "Istirahat dan observasi"
	}

	if score > 100 {
		score = 100
	}

	return entities.UrgencyAssessment{
		Level:          level,
		Score:          score,
		Description:    description,
		Recommendation: recommendation,
		DetectedFlags:  flags,
		FlagsSummary: entities.FlagsSummary{
			Total:  len(flags),
			Red:    redCount,
			Yellow: yellowCount,
		},
	}
}

// AnalyzeUrgency runs flag detection and aggregation on one complaint.
func (e *UrgencyEngine) AnalyzeUrgency(complaint *entities.Complaint) entities.UrgencyAssessment {
	return e.Aggregate(e.DetectFlags(complaint))
}
