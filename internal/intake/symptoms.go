package intake

import (
	"fmt"
	"slices"
	"strings"
)

// Symptom is one entry of the fixed symptom catalog. The zero value is not a
// symptom.
type Symptom int

const (
	ChestPain Symptom = iota + 1
	Fever
	SevereHeadache
	DifficultyBreathing
	AbdominalPain
	NauseaVomiting
	Diarrhea
	Cough
	SoreThroat
	FatigueWeakness
	Dizziness
	SkinRash
	JointPain
	BackPain
	UrinaryProblems
)

var symptomLabels = map[Symptom]string{
	ChestPain:           "Chest Pain",
	Fever:               "Fever/High Temperature",
	SevereHeadache:      "Severe Headache",
	DifficultyBreathing: "Difficulty Breathing",
	AbdominalPain:       "Abdominal Pain",
	NauseaVomiting:      "Nausea/Vomiting",
	Diarrhea:            "Diarrhea",
	Cough:               "Cough",
	SoreThroat:          "Sore Throat",
	FatigueWeakness:     "Fatigue/Weakness",
	Dizziness:           "Dizziness",
	SkinRash:            "Skin Rash",
	JointPain:           "Joint Pain",
	BackPain:            "Back Pain",
	UrinaryProblems:     "Urinary Problems",
}

var urgentSymptoms = []Symptom{ChestPain, Fever, SevereHeadache, DifficultyBreathing}

// UrgencyAdvisory is shown while any urgent symptom is selected.
const UrgencyAdvisory = "Urgent medical attention is required. Call emergency"

// Catalog returns every symptom in display order.
func Catalog() []Symptom {
	out := make([]Symptom, 0, len(symptomLabels))
	for s := ChestPain; s <= UrinaryProblems; s++ {
		out = append(out, s)
	}
	return out
}

// UrgentSymptoms returns the symptoms that trigger the urgency advisory.
func UrgentSymptoms() []Symptom {
	return slices.Clone(urgentSymptoms)
}

// ParseSymptom resolves a catalog label.
func ParseSymptom(label string) (Symptom, error) {
	for s, l := range symptomLabels {
		if strings.EqualFold(l, strings.TrimSpace(label)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown symptom: %q", label)
}

// String returns the catalog label.
func (s Symptom) String() string {
	if l, ok := symptomLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("Symptom(%d)", int(s))
}

// Valid reports whether s belongs to the catalog.
func (s Symptom) Valid() bool {
	_, ok := symptomLabels[s]
	return ok
}

// Urgent reports whether s belongs to the urgent subset.
func (s Symptom) Urgent() bool {
	return slices.Contains(urgentSymptoms, s)
}

// MarshalText encodes the symptom as its label.
func (s Symptom) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown symptom: %d", int(s))
	}
	return []byte(symptomLabels[s]), nil
}

// UnmarshalText decodes a catalog label.
func (s *Symptom) UnmarshalText(b []byte) error {
	v, err := ParseSymptom(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SymptomDuration is how long the symptoms have lasted.
type SymptomDuration string

const (
	DurationOneToTwoDays   SymptomDuration = "1-2 days"
	DurationThreeToFive   SymptomDuration = "3-5 days"
	DurationMoreThanAWeek SymptomDuration = "more than a week"
)

// Durations returns the duration buckets in display order.
func Durations() []SymptomDuration {
	return []SymptomDuration{DurationOneToTwoDays, DurationThreeToFive, DurationMoreThanAWeek}
}

// ParseSymptomDuration parses a duration bucket. The empty string is allowed
// and means not answered.
func ParseSymptomDuration(s string) (SymptomDuration, error) {
	if s == "" {
		return "", nil
	}
	for _, d := range Durations() {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid duration: %s (valid: 1-2 days, 3-5 days, more than a week)", s)
}

// Severity bounds of the pain slider.
const (
	MinSeverity = 0
	MaxSeverity = 10
)

// SymptomReport is what the patient reported on the Symptoms step.
type SymptomReport struct {
	Symptoms          []Symptom       `json:"symptoms" yaml:"symptoms"`
	Duration          SymptomDuration `json:"duration" yaml:"duration"`
	Severity          int             `json:"severity" yaml:"severity"`
	AdditionalDetails string          `json:"additionalDetails" yaml:"additional_details,omitempty"`
}

// Clone returns a deep copy of r.
func (r SymptomReport) Clone() SymptomReport {
	r.Symptoms = slices.Clone(r.Symptoms)
	return r
}

// Equal reports whether r and o hold the same values.
func (r SymptomReport) Equal(o SymptomReport) bool {
	return slices.Equal(r.Symptoms, o.Symptoms) &&
		r.Duration == o.Duration &&
		r.Severity == o.Severity &&
		r.AdditionalDetails == o.AdditionalDetails
}

// Has reports whether s was selected.
func (r SymptomReport) Has(s Symptom) bool {
	return slices.Contains(r.Symptoms, s)
}

// Labels returns the selected symptom labels.
func (r SymptomReport) Labels() []string {
	out := make([]string, len(r.Symptoms))
	for i, s := range r.Symptoms {
		out[i] = s.String()
	}
	return out
}

// Selector tracks the Symptoms step while the user edits it.
type Selector struct {
	selected []Symptom
	duration SymptomDuration
	severity int
	details  string
}

// NewSelector starts a selector from a previous report.
func NewSelector(r SymptomReport) *Selector {
	s := &Selector{
		selected: slices.Clone(r.Symptoms),
		duration: r.Duration,
		details:  r.AdditionalDetails,
	}
	s.SetSeverity(r.Severity)
	return s
}

// Toggle adds s if absent, removes it otherwise. Unknown symptoms are ignored.
func (sel *Selector) Toggle(s Symptom) {
	if !s.Valid() {
		return
	}
	if i := slices.Index(sel.selected, s); i >= 0 {
		sel.selected = slices.Delete(sel.selected, i, i+1)
		return
	}
	sel.selected = append(sel.selected, s)
}

// SetSelected replaces the selection, dropping unknown and repeated entries.
func (sel *Selector) SetSelected(symptoms []Symptom) {
	sel.selected = sel.selected[:0]
	for _, s := range symptoms {
		if s.Valid() && !slices.Contains(sel.selected, s) {
			sel.selected = append(sel.selected, s)
		}
	}
}

// Selected returns a copy of the selection in selection order.
func (sel *Selector) Selected() []Symptom {
	return slices.Clone(sel.selected)
}

// Urgent reports whether any urgent symptom is selected.
func (sel *Selector) Urgent() bool {
	return slices.ContainsFunc(sel.selected, Symptom.Urgent)
}

// Advisory returns the urgency advisory, or "" when none applies.
func (sel *Selector) Advisory() string {
	if sel.Urgent() {
		return UrgencyAdvisory
	}
	return ""
}

// SetDuration records the duration bucket.
func (sel *Selector) SetDuration(d SymptomDuration) { sel.duration = d }

// SetSeverity records the pain level, clamped to 0..10.
func (sel *Selector) SetSeverity(v int) {
	sel.severity = min(max(v, MinSeverity), MaxSeverity)
}

// SetDetails records the free-text details.
func (sel *Selector) SetDetails(s string) { sel.details = s }

// Report returns an immutable snapshot of the step.
func (sel *Selector) Report() SymptomReport {
	return SymptomReport{
		Symptoms:          slices.Clone(sel.selected),
		Duration:          sel.duration,
		Severity:          sel.severity,
		AdditionalDetails: sel.details,
	}
}
