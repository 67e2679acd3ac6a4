package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/medikita/triage-ai/internal/domain/entities"
	"golang.org/x/text/unicode/norm"
)

// termSubstitution folds one colloquial or misspelled variant to its
// canonical medical term. Substitutions are applied in declaration order so
// normalization output is reproducible.
type termSubstitution struct {
	variant   string
	canonical string
}

var medicalTermTable = []termSubstitution{
	// Symptoms
	{"puzing", "pusing"},
	{"mumet", "pusing"},
	{"demem", "demam"},
	{"panas", "demam"},
	{"batuk2", "batuk"},
	{"batuk-batuk", "batuk"},
	{"meler", "pilek"},
	{"sesek", "sesak napas"},
	{"sesak", "sesak napas"},
	{"napas pendek", "sesak napas"},
	{"dada sakit", "nyeri dada"},
	{"sakit dada", "nyeri dada"},
	{"perut sakit", "sakit perut"},
	{"mual2", "mual"},
	{"muntah2", "muntah"},
	{"mencret", "diare"},
	{"capek", "lemas"},
	{"lelah", "lemas"},
	{"gatel", "gatal"},
	{"gatal2", "gatal"},
	{"pegel", "pegal"},
	{"pegel2", "pegal"},
	{"keringetan", "keringat dingin"},

	// Severity descriptors
	{"sekali", "sangat"},
	{"banget", "sangat"},
	{"parah", "hebat"},
	{"sedikit", "ringan"},

	// Time descriptors
	{"tiba2", "tiba-tiba"},
	{"mendadak", "tiba-tiba"},
	{"terus", "terus-menerus"},

	// Medical conditions
	{"darah tinggi", "hipertensi"},
	{"kencing manis", "diabetes"},
}

var stopwords = map[string]struct{}{
	"yang": {}, "dan": {}, "di": {}, "ke": {}, "dari": {}, "pada": {}, "untuk": {},
	"dengan": {}, "ini": {}, "itu": {}, "saya": {}, "aku": {}, "adalah": {},
	"sudah": {}, "juga": {}, "atau": {}, "akan": {}, "tidak": {}, "ya": {},
}

// symptomVocabulary is the canonical symptom phrase list scanned by
// ExtractSymptoms.
var symptomVocabulary = []string{
	"demam", "batuk", "pilek", "pusing", "sakit kepala",
	"nyeri dada", "sesak napas", "mual", "muntah", "diare",
	"sakit perut", "lemas", "pegal", "gatal", "ruam",
	"keringat dingin", "menggigil", "bengkak", "kejang",
	"pingsan", "berdarah", "mata kuning", "leher kaku",
}

var (
	urlPattern        = regexp.MustCompile(`http\S+|www\S+|https\S+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	temperaturePattern = regexp.MustCompile(`(?i)(\d{2,3})\s*(?:derajat|°|c|celcius)`)
	bloodPressPattern  = regexp.MustCompile(`(\d{2,3})/(\d{2,3})`)
	durationDayPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:hari|hr|day)`)
	durationWkPattern  = regexp.MustCompile(`(?i)(\d+)\s*(?:minggu|week)`)
)

// kept out of the punctuation set so compound terms ("tiba-tiba") and blood
// pressure notation ("120/80") survive
const strippedPunctuation = "!\"#$%&'()*+,.:;<=>?@[\\]^_`{|}~"

// Normalizer cleans raw Indonesian complaint text, folds term variants,
// tokenizes, and extracts numeric vitals. It holds no mutable state and is
// safe for concurrent use.
type Normalizer struct {
	termPatterns []compiledSubstitution
}

type compiledSubstitution struct {
	pattern   *regexp.Regexp
	canonical string
}

// NewNormalizer compiles the term substitution table.
func NewNormalizer() *Normalizer {
	patterns := make([]compiledSubstitution, 0, len(medicalTermTable))
	for _, sub := range medicalTermTable {
		// Word boundaries keep substring matches from corrupting
		// unrelated words.
		patterns = append(patterns, compiledSubstitution{
			pattern:   regexp.MustCompile(`\b` + regexp.QuoteMeta(sub.variant) + `\b`),
			canonical: sub.canonical,
		})
	}
	return &Normalizer{termPatterns: patterns}
}

// Normalize runs the full preprocessing pipeline. It never fails: empty or
// malformed input yields an empty-but-valid Complaint. Numeric extraction
// runs on the raw text before punctuation stripping.
func (n *Normalizer) Normalize(raw string, dropStopwords bool) *entities.Complaint {
	vitals := n.ExtractVitals(raw)

	cleaned := n.cleanText(raw)
	normalized := n.foldMedicalTerms(cleaned)
	noPunct := stripPunctuation(normalized)

	tokens := strings.Fields(noPunct)
	if dropStopwords {
		tokens = removeStopwords(tokens)
	}

	return &entities.Complaint{
		Raw:        raw,
		Normalized: strings.Join(tokens, " "),
		Tokens:     tokens,
		Vitals:     vitals,
	}
}

// ExtractSymptoms scans the symptom vocabulary against the stopword-stripped
// normalized text using substring containment. Each label is returned at
// most once.
func (n *Normalizer) ExtractSymptoms(raw string) []string {
	complaint := n.Normalize(raw, true)

	var found []string
	for _, symptom := range symptomVocabulary {
		if strings.Contains(complaint.Normalized, symptom) {
			found = append(found, symptom)
		}
	}
	return found
}

// ExtractVitals pulls temperature, blood pressure, and duration readings out
// of raw text. If both a day and a week duration are present the week match
// wins because it is evaluated last.
func (n *Normalizer) ExtractVitals(text string) entities.Vitals {
	var vitals entities.Vitals

	if m := temperaturePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			vitals.Temperature = &v
		}
	}

	if m := bloodPressPattern.FindStringSubmatch(text); m != nil {
		systolic, err1 := strconv.Atoi(m[1])
		diastolic, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			vitals.BloodPressure = &entities.BloodPressure{
				Systolic:  systolic,
				Diastolic: diastolic,
			}
		}
	}

	if m := durationDayPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			vitals.DurationDays = &v
		}
	}

	if m := durationWkPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			days := v * 7
			vitals.DurationDays = &days
		}
	}

	return vitals
}

func (n *Normalizer) cleanText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ToLower(text)
	text = norm.NFKD.String(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = emailPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func (n *Normalizer) foldMedicalTerms(text string) string {
	for _, sub := range n.termPatterns {
		text = sub.pattern.ReplaceAllString(text, sub.canonical)
	}
	return text
}

func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(strippedPunctuation, r) {
			return -1
		}
		return r
	}, text)
}

func removeStopwords(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := stopwords[token]; !ok {
			kept = append(kept, token)
		}
	}
	return kept
}
