package intake

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var errUnreachable = errors.New("connection refused")

// fakeService records calls and returns canned results.
type fakeService struct {
	calls []string
	keys  []string

	patientErr      error
	consultationErr error
	summaryErr      error

	lastPatient Patient
	lastRequest ConsultationRequest
	nextID      int
}

func (f *fakeService) CreatePatient(ctx context.Context, p Patient) (Patient, error) {
	f.calls = append(f.calls, "CreatePatient")
	f.keys = append(f.keys, IdempotencyKey(ctx))
	f.lastPatient = p
	if f.patientErr != nil {
		return Patient{}, f.patientErr
	}
	f.nextID++
	p.ID = fmt.Sprintf("pat-%d", f.nextID)
	return p, nil
}

func (f *fakeService) CreateConsultation(ctx context.Context, req ConsultationRequest) (Consultation, error) {
	f.calls = append(f.calls, "CreateConsultation")
	f.keys = append(f.keys, IdempotencyKey(ctx))
	f.lastRequest = req
	if f.consultationErr != nil {
		return Consultation{}, f.consultationErr
	}
	f.nextID++
	return Consultation{ID: fmt.Sprintf("con-%d", f.nextID)}, nil
}

func (f *fakeService) ConsultationSummary(ctx context.Context, id string) (Consultation, error) {
	f.calls = append(f.calls, "ConsultationSummary")
	if f.summaryErr != nil {
		return Consultation{}, f.summaryErr
	}
	return Consultation{
		ID:        id,
		Patient:   f.lastPatient,
		Symptoms:  f.lastRequest.Symptoms,
		FollowUps: f.lastRequest.FollowUps,
		RiskAssessment: &RiskAssessment{
			Level:   RiskMedium,
			Factors: []string{"Pain level 5/10"},
		},
		Recommendations: []string{"Rest"},
		NextActions:     []string{"See a doctor within 48 hours"},
		CreatedAt:       time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeService) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func janeDoe() Patient {
	return Patient{
		FullName: "Jane Doe",
		Age:      30,
		Gender:   GenderFemale,
		Phone:    "555-1234",
	}
}
