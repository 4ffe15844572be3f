package screens

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mrsinham/triagewizard/internal/intake"
)

func sampleConsultation(created time.Time) intake.Consultation {
	return intake.Consultation{
		ID: "con-1",
		Patient: intake.Patient{
			FullName: "Jane Doe",
			Age:      30,
			Gender:   intake.GenderFemale,
			Phone:    "555-1234",
		},
		Symptoms: []intake.SymptomReport{{
			Symptoms: []intake.Symptom{intake.SevereHeadache},
			Duration: intake.DurationOneToTwoDays,
			Severity: 5,
		}},
		FollowUps:            []intake.FollowUpEntry{{Question: "Severe Headache", Answer: "Location: temples"}},
		RiskAssessment:       &intake.RiskAssessment{Level: intake.RiskHigh, Factors: []string{"Urgent symptom: Severe Headache"}},
		Recommendations:      []string{"Seek medical attention today"},
		NextActions:          []string{"Visit the emergency department"},
		ConsultationDuration: 3,
		CreatedAt:            created,
	}
}

func TestRenderConsultation(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 3, 0, 0, time.UTC)
	out := RenderConsultation(sampleConsultation(now.Add(-3*time.Minute)), now)

	for _, want := range []string{
		"Patient Information",
		"Jane Doe",
		"Female",
		"Medical History: None",
		"Severe Headache",
		"5/10",
		"1-2 days",
		"Location: temples",
		"HIGH Risk",
		"Urgent symptom: Severe Headache",
		"Seek medical attention today",
		"Visit the emergency department",
		"3 minutes ago",
		"duration 3 minutes",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected rendering to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRenderConsultation_MissingSections(t *testing.T) {
	c := sampleConsultation(time.Time{})
	c.RiskAssessment = nil
	c.Recommendations = nil
	c.FollowUps = nil

	out := RenderConsultation(c, time.Now())
	if !strings.Contains(out, "Not available") {
		t.Error("Expected risk placeholder")
	}
	if strings.Contains(out, "Follow-up Answers") {
		t.Error("Expected no follow-up section without answers")
	}
	if !strings.Contains(out, "Consultation Time: unknown") {
		t.Error("Expected unknown consultation time")
	}
}

func TestSummaryScreen_Actions(t *testing.T) {
	c := sampleConsultation(time.Now())
	s := NewSummaryScreen(&c, nil)
	if s.Action() != SummaryActionNew {
		t.Errorf("Expected default action New, got %d", s.Action())
	}

	failed := NewSummaryScreen(nil, errors.New("boom"))
	if failed.Action() != SummaryActionRetry {
		t.Errorf("Expected default action Retry on failure, got %d", failed.Action())
	}
	if !strings.Contains(failed.View(), SummaryLoadFailed) {
		t.Error("Expected failure message in view")
	}
}
