package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mrsinham/triagewizard/internal/intake"
)

func TestLoadFromYAML_ValidAnswers(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "answers.yaml")

	content := `
patient:
  full_name: "Jane Doe"
  age: 30
  gender: Female
  phone: "555-1234"
  medical_history:
    - Asthma
symptoms:
  selected:
    - Abdominal Pain
    - Cough
  duration: 3-5 days
  severity: 6
  additional_details: "worse after meals"
follow_ups:
  Abdominal Pain:
    location: lower-right
    description: cramping
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test answers: %v", err)
	}

	state, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if state.Patient.FullName != "Jane Doe" {
		t.Errorf("Expected FullName Jane Doe, got %s", state.Patient.FullName)
	}
	if state.Patient.Gender != intake.GenderFemale {
		t.Errorf("Expected Gender female, got %s", state.Patient.Gender)
	}
	if len(state.Patient.MedicalHistory) != 1 || state.Patient.MedicalHistory[0] != "Asthma" {
		t.Errorf("Expected MedicalHistory [Asthma], got %v", state.Patient.MedicalHistory)
	}
	if !state.Symptoms.Has(intake.AbdominalPain) || !state.Symptoms.Has(intake.Cough) {
		t.Errorf("Expected Abdominal Pain and Cough, got %v", state.Symptoms.Labels())
	}
	if state.Symptoms.Duration != intake.DurationThreeToFive {
		t.Errorf("Expected duration 3-5 days, got %s", state.Symptoms.Duration)
	}
	if state.Symptoms.Severity != 6 {
		t.Errorf("Expected severity 6, got %d", state.Symptoms.Severity)
	}
	if got := state.FollowUps.Get(intake.AbdominalPain, "location"); got != "lower-right" {
		t.Errorf("Expected location lower-right, got %q", got)
	}
}

func TestLoadFromYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "invalid_yaml",
			content: "patient: [unclosed",
			want:    "parsing answers file",
		},
		{
			name:    "unknown_symptom",
			content: "symptoms:\n  selected: [Hiccups]\n",
			want:    "Hiccups",
		},
		{
			name:    "bad_gender",
			content: "patient:\n  gender: robot\n",
			want:    "invalid gender",
		},
		{
			name:    "bad_duration",
			content: "symptoms:\n  selected: [Cough]\n  duration: forever\n",
			want:    "invalid duration",
		},
		{
			name:    "severity_out_of_range",
			content: "symptoms:\n  selected: [Cough]\n  severity: 11\n",
			want:    "out of range",
		},
		{
			name:    "bad_follow_up_option",
			content: "symptoms:\n  selected: [Abdominal Pain]\nfollow_ups:\n  Abdominal Pain:\n    location: elbow\n",
			want:    "elbow",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "answers.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write test answers: %v", err)
			}
			_, err := LoadFromYAML(path)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFromYAML_MissingFile(t *testing.T) {
	_, err := LoadFromYAML(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoadFromYAML_DropsAnswersForUnselectedSymptoms(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.yaml")
	content := "symptoms:\n  selected: [Cough]\nfollow_ups:\n  Abdominal Pain:\n    location: center\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test answers: %v", err)
	}

	state, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}
	if len(state.FollowUps) != 0 {
		t.Errorf("Expected no follow-up answers, got %v", state.FollowUps)
	}
}

func TestSaveToYAML_RoundTrip(t *testing.T) {
	answers := intake.FollowUpAnswers{}
	if err := answers.Set(intake.ChestPain, "description", "pressure"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	original := &State{
		Patient: intake.Patient{
			FullName:           "John Smith",
			Age:                58,
			Gender:             intake.GenderMale,
			Phone:              "555-0000",
			MedicalHistory:     []string{"Diabetes", "Heart Disease"},
			CurrentMedications: "metformin",
		},
		Symptoms: intake.SymptomReport{
			Symptoms: []intake.Symptom{intake.ChestPain, intake.Dizziness},
			Duration: intake.DurationMoreThanAWeek,
			Severity: 8,
		},
		FollowUps: answers,
	}

	path := filepath.Join(t.TempDir(), "answers.yaml")
	if err := SaveToYAML(original, path); err != nil {
		t.Fatalf("SaveToYAML failed: %v", err)
	}

	loaded, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if !loaded.Patient.Equal(original.Patient) {
		t.Errorf("Patient mismatch: expected %+v, got %+v", original.Patient, loaded.Patient)
	}
	if !loaded.Symptoms.Equal(original.Symptoms) {
		t.Errorf("Symptoms mismatch: expected %+v, got %+v", original.Symptoms, loaded.Symptoms)
	}
	if got := loaded.FollowUps.Get(intake.ChestPain, "description"); got != "pressure" {
		t.Errorf("Expected description pressure, got %q", got)
	}
}

func TestSaveToYAML_UsesLabels(t *testing.T) {
	state := &State{
		Symptoms: intake.SymptomReport{Symptoms: []intake.Symptom{intake.NauseaVomiting}},
	}
	path := filepath.Join(t.TempDir(), "answers.yaml")
	if err := SaveToYAML(state, path); err != nil {
		t.Fatalf("SaveToYAML failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read answers: %v", err)
	}
	if !strings.Contains(string(data), intake.NauseaVomiting.String()) {
		t.Errorf("Expected symptom label in answers, got:\n%s", data)
	}
}

func TestExportSummary(t *testing.T) {
	c := intake.Consultation{
		ID:      "con-1",
		Patient: intake.Patient{FullName: "Jane Doe", Age: 30, Gender: intake.GenderFemale, Phone: "555"},
		Symptoms: []intake.SymptomReport{{
			Symptoms: []intake.Symptom{intake.Fever},
			Severity: 7,
		}},
		RiskAssessment:       &intake.RiskAssessment{Level: intake.RiskHigh, Factors: []string{"Urgent symptom: Fever"}},
		Recommendations:      []string{"Seek care today"},
		ConsultationDuration: 4,
		Status:               intake.StatusCompleted,
		CreatedAt:            time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	path := filepath.Join(t.TempDir(), "summary.yaml")
	if err := ExportSummary(c, path, time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)); err != nil {
		t.Fatalf("ExportSummary failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	for _, want := range []string{"id: con-1", "full_name: Jane Doe", "- Fever", "level: high", "duration_minutes: 4", "status: completed"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected export to contain %q, got:\n%s", want, data)
		}
	}
}
