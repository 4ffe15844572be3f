package intake

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	if len(catalog) != 15 {
		t.Fatalf("Expected 15 symptoms, got %d", len(catalog))
	}
	if catalog[0] != ChestPain || catalog[14] != UrinaryProblems {
		t.Errorf("Unexpected catalog order: %v", catalog)
	}
	for _, s := range catalog {
		parsed, err := ParseSymptom(s.String())
		if err != nil {
			t.Errorf("ParseSymptom(%q) returned error: %v", s, err)
		}
		if parsed != s {
			t.Errorf("ParseSymptom(%q) = %v, want %v", s, parsed, s)
		}
	}
	if _, err := ParseSymptom("Hiccups"); err == nil {
		t.Error("ParseSymptom(Hiccups) should return error")
	}
}

func TestUrgentSymptoms(t *testing.T) {
	want := []string{"Chest Pain", "Fever/High Temperature", "Severe Headache", "Difficulty Breathing"}
	var got []string
	for _, s := range UrgentSymptoms() {
		got = append(got, s.String())
	}
	if !slices.Equal(got, want) {
		t.Errorf("Expected urgent symptoms %v, got %v", want, got)
	}
}

func TestSelector_AdvisoryShownForEachUrgentSymptom(t *testing.T) {
	for _, urgent := range UrgentSymptoms() {
		t.Run(urgent.String(), func(t *testing.T) {
			sel := NewSelector(SymptomReport{})
			sel.Toggle(Cough)
			if sel.Advisory() != "" {
				t.Fatal("Expected no advisory for Cough alone")
			}
			sel.Toggle(urgent)
			if sel.Advisory() != UrgencyAdvisory {
				t.Errorf("Expected advisory after selecting %s, got %q", urgent, sel.Advisory())
			}
		})
	}
}

func TestSelector_AdvisoryClearedWhenNoUrgentRemains(t *testing.T) {
	sel := NewSelector(SymptomReport{})
	sel.Toggle(ChestPain)
	sel.Toggle(SevereHeadache)
	sel.Toggle(Cough)
	sel.Toggle(Dizziness)

	sel.Toggle(ChestPain)
	if !sel.Urgent() {
		t.Fatal("Expected advisory while Severe Headache remains selected")
	}
	sel.Toggle(SevereHeadache)
	if sel.Urgent() || sel.Advisory() != "" {
		t.Error("Expected advisory to clear once no urgent symptom remains")
	}
	if !slices.Equal(sel.Selected(), []Symptom{Cough, Dizziness}) {
		t.Errorf("Expected [Cough Dizziness], got %v", sel.Selected())
	}
}

func TestSelector_ReportIsSnapshot(t *testing.T) {
	sel := NewSelector(SymptomReport{})
	sel.Toggle(AbdominalPain)
	sel.SetDuration(DurationThreeToFive)
	sel.SetSeverity(7)
	sel.SetDetails("after meals")

	report := sel.Report()
	sel.Toggle(Cough)
	sel.SetSeverity(2)

	if !slices.Equal(report.Symptoms, []Symptom{AbdominalPain}) {
		t.Errorf("Expected snapshot to keep [Abdominal Pain], got %v", report.Symptoms)
	}
	if report.Severity != 7 || report.Duration != DurationThreeToFive || report.AdditionalDetails != "after meals" {
		t.Errorf("Unexpected snapshot %+v", report)
	}
}

func TestSelector_SeverityClamped(t *testing.T) {
	sel := NewSelector(SymptomReport{})
	if sel.Report().Severity != 0 {
		t.Errorf("Expected default severity 0, got %d", sel.Report().Severity)
	}
	sel.SetSeverity(42)
	if sel.Report().Severity != MaxSeverity {
		t.Errorf("Expected severity clamped to 10, got %d", sel.Report().Severity)
	}
	sel.SetSeverity(-3)
	if sel.Report().Severity != MinSeverity {
		t.Errorf("Expected severity clamped to 0, got %d", sel.Report().Severity)
	}
}

func TestSelector_IgnoresUnknownSymptoms(t *testing.T) {
	sel := NewSelector(SymptomReport{})
	sel.Toggle(Symptom(99))
	sel.SetSelected([]Symptom{Cough, Cough, 0, Fever})
	if !slices.Equal(sel.Selected(), []Symptom{Cough, Fever}) {
		t.Errorf("Expected [Cough Fever], got %v", sel.Selected())
	}
}

func TestSymptomReport_JSONUsesLabels(t *testing.T) {
	report := SymptomReport{
		Symptoms: []Symptom{SevereHeadache, Fever},
		Duration: DurationOneToTwoDays,
		Severity: 5,
	}
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"symptoms":["Severe Headache","Fever/High Temperature"],"duration":"1-2 days","severity":5,"additionalDetails":""}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}

	var decoded SymptomReport
	if err := json.Unmarshal([]byte(`{"symptoms":["Hiccups"]}`), &decoded); err == nil {
		t.Error("Expected error decoding unknown symptom")
	}
}

func TestParseSymptomDuration(t *testing.T) {
	for _, d := range Durations() {
		got, err := ParseSymptomDuration(string(d))
		if err != nil || got != d {
			t.Errorf("ParseSymptomDuration(%q) = %q, %v", d, got, err)
		}
	}
	if _, err := ParseSymptomDuration("forever"); err == nil {
		t.Error("Expected error for invalid duration")
	}
	if got, err := ParseSymptomDuration(""); err != nil || got != "" {
		t.Errorf("Expected empty duration to be accepted, got %q, %v", got, err)
	}
}
