package entities

// UrgencyLevel is the triage tier assigned to a complaint.
type UrgencyLevel string

const (
	UrgencyRed    UrgencyLevel = "Red"
	UrgencyYellow UrgencyLevel = "Yellow"
	UrgencyGreen  UrgencyLevel = "Green"
)

// Severity classifies how serious a matched rule is.
type Severity string

const (
	SeverityCritical      Severity = "Critical"
	SeverityWarning       Severity = "Warning"
	SeverityInformational Severity = "Informational"
)

// FlagRule is one entry of the static red flag rule table. Rules are loaded
// once at startup and shared read-only across requests.
type FlagRule struct {
	Keywords []string     `json:"keywords"`
	Reason   string       `json:"reason"`
	Action   string       `json:"action"`
	Severity Severity     `json:"-"`
	Urgency  UrgencyLevel `json:"-"`
}

// DetectedFlag is a single triggered rule or threshold breach.
type DetectedFlag struct {
	Urgency  UrgencyLevel `json:"urgency"`
	Keyword  string       `json:"keyword"`
	Reason   string       `json:"reason"`
	Action   string       `json:"action"`
	Severity Severity     `json:"severity"`
}

// FlagsSummary counts detected flags by tier.
type FlagsSummary struct {
	Total  int `json:"total"`
	Red    int `json:"red"`
	Yellow int `json:"yellow"`
}

// UrgencyAssessment is the aggregated urgency decision for one complaint,
// immutable once computed.
type UrgencyAssessment struct {
	Level          UrgencyLevel   `json:"urgency_level"`
	Score          int            `json:"urgency_score"`
	Description    string         `json:"description"`
	Recommendation string         `json:"recommendation"`
	DetectedFlags  []DetectedFlag `json:"detected_flags"`
	FlagsSummary   FlagsSummary   `json:"flags_summary"`
}
