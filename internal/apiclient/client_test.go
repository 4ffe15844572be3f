package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrsinham/triagewizard/internal/intake"
	"github.com/mrsinham/triagewizard/internal/mockapi"
)

func newStub(t *testing.T) (*mockapi.Server, *Client) {
	t.Helper()
	stub := mockapi.NewServer(zerolog.Nop())
	ts := httptest.NewServer(stub.Echo("/api"))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL+"/api/", WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return stub, c
}

func jane() intake.Patient {
	return intake.Patient{FullName: "Jane Doe", Age: 30, Gender: intake.GenderFemale, Phone: "555-1234"}
}

func TestNew_BaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", DefaultBaseURL, false},
		{"http://localhost:8081/api/", "http://localhost:8081/api", false},
		{"ftp://example.com", "", true},
		{"://bad", "", true},
	}
	for _, tt := range tests {
		c, err := New(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) returned error: %v", tt.in, err)
			continue
		}
		if c.BaseURL() != tt.want {
			t.Errorf("New(%q).BaseURL() = %q, want %q", tt.in, c.BaseURL(), tt.want)
		}
	}
}

func TestClient_RoundTrip(t *testing.T) {
	_, c := newStub(t)
	ctx := context.Background()

	patient, err := c.CreatePatient(ctx, jane())
	if err != nil {
		t.Fatalf("CreatePatient failed: %v", err)
	}
	if patient.ID == "" || patient.FullName != "Jane Doe" {
		t.Fatalf("Unexpected patient %+v", patient)
	}

	sub := intake.Submission{Symptoms: intake.SymptomReport{
		Symptoms: []intake.Symptom{intake.SevereHeadache},
		Duration: intake.DurationOneToTwoDays,
		Severity: 5,
	}}
	consultation, err := c.CreateConsultation(ctx, sub.Request(patient.ID))
	if err != nil {
		t.Fatalf("CreateConsultation failed: %v", err)
	}
	if consultation.ID == "" {
		t.Fatal("Expected consultation id")
	}

	summary, err := c.ConsultationSummary(ctx, consultation.ID)
	if err != nil {
		t.Fatalf("ConsultationSummary failed: %v", err)
	}
	if summary.Patient.FullName != "Jane Doe" || summary.PainLevelLabel() != "5/10" {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if summary.RiskAssessment == nil || len(summary.Recommendations) == 0 {
		t.Errorf("Expected assessment in summary, got %+v", summary)
	}
}

func TestClient_IdempotencyKeyHeader(t *testing.T) {
	stub, c := newStub(t)
	ctx := intake.WithIdempotencyKey(context.Background(), "session-1")

	first, err := c.CreatePatient(ctx, jane())
	if err != nil {
		t.Fatalf("CreatePatient failed: %v", err)
	}
	second, err := c.CreatePatient(ctx, jane())
	if err != nil {
		t.Fatalf("CreatePatient failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected replayed patient %s, got %s", first.ID, second.ID)
	}
	if patients, _ := stub.Store().Counts(); patients != 1 {
		t.Errorf("Expected 1 stored patient, got %d", patients)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	stub, c := newStub(t)
	stub.Fail(mockapi.RouteCreatePatient, http.StatusServiceUnavailable)

	_, err := c.CreatePatient(context.Background(), jane())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable || apiErr.Message != "Service Unavailable" {
		t.Errorf("Unexpected error %+v", apiErr)
	}

	_, err = c.ConsultationSummary(context.Background(), "missing")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %v", err)
	}
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(url)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.CreatePatient(context.Background(), jane()); err == nil {
		t.Error("Expected transport error")
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	_, c := newStub(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.CreatePatient(ctx, jane()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestClient_EmptySummaryID(t *testing.T) {
	c, _ := New("")
	if _, err := c.ConsultationSummary(context.Background(), ""); err == nil {
		t.Error("Expected error for empty id")
	}
}

func TestSequencer_AgainstStub(t *testing.T) {
	stub, c := newStub(t)
	stub.Fail(mockapi.RouteCreateConsultation, http.StatusBadGateway)

	seq := intake.NewSequencer(c, zerolog.Nop())
	sub := intake.Submission{
		SessionKey: "session-9",
		Patient:    jane(),
		Symptoms:   intake.SymptomReport{Symptoms: []intake.Symptom{intake.Cough}},
	}
	receipt, err := seq.Submit(context.Background(), sub)
	var submitErr *intake.SubmitError
	if !errors.As(err, &submitErr) || submitErr.Stage != intake.StageCreateConsultation {
		t.Fatalf("Expected consultation stage failure, got %v", err)
	}
	if receipt.PatientID == "" {
		t.Fatal("Expected receipt to keep the created patient")
	}

	stub.Recover()
	sub.PatientID = receipt.PatientID
	receipt, err = seq.Submit(context.Background(), sub)
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if patients, consultations := stub.Store().Counts(); patients != 1 || consultations != 1 {
		t.Errorf("Expected 1 patient and 1 consultation, got %d and %d", patients, consultations)
	}
}
