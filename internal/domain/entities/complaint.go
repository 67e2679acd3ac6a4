package entities

// BloodPressure holds an extracted systolic/diastolic reading in mmHg.
type BloodPressure struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// Vitals holds numeric health data extracted from raw complaint text.
// Extraction runs before punctuation stripping so readings like "200/120"
// survive intact.
type Vitals struct {
	Temperature   *float64       `json:"temperature"`
	BloodPressure *BloodPressure `json:"blood_pressure"`
	DurationDays  *int           `json:"duration_days"`
}

// Complaint is a patient complaint after normalization. It is created once
// per request and immutable afterwards.
type Complaint struct {
	Raw        string   `json:"original"`
	Normalized string   `json:"processed"`
	Tokens     []string `json:"tokens"`
	Vitals     Vitals   `json:"numeric_data"`
}
