package intake

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// Submission is the frozen snapshot sent at the end of the Follow-up step.
type Submission struct {
	SessionKey string
	// PatientID is set when an earlier attempt already created the patient.
	PatientID string
	Patient   Patient
	Symptoms  SymptomReport
	FollowUps []FollowUpEntry
}

// Request builds the consultation payload for the given patient.
func (s Submission) Request(patientID string) ConsultationRequest {
	followUps := s.FollowUps
	if followUps == nil {
		followUps = []FollowUpEntry{}
	}
	return ConsultationRequest{
		Patient:           patientID,
		Symptoms:          []SymptomReport{s.Symptoms.Clone()},
		PainLevel:         s.Symptoms.Severity,
		AdditionalDetails: s.Symptoms.AdditionalDetails,
		FollowUps:         followUps,
	}
}

// Receipt reports what a submission created. On failure it still carries
// the patient ID if the patient was created.
type Receipt struct {
	PatientID      string
	ConsultationID string
}

// Sequencer runs the two dependent service calls of a submission.
type Sequencer struct {
	svc    Service
	logger zerolog.Logger
}

// NewSequencer creates a sequencer on svc.
func NewSequencer(svc Service, logger zerolog.Logger) *Sequencer {
	return &Sequencer{svc: svc, logger: logger}
}

// Submit creates the patient, unless sub already carries its ID, then the
// consultation. Calls are strictly sequential and never retried.
func (q *Sequencer) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if sub.SessionKey != "" {
		ctx = WithIdempotencyKey(ctx, sub.SessionKey)
	}

	receipt := Receipt{PatientID: sub.PatientID}
	if receipt.PatientID == "" {
		created, err := q.svc.CreatePatient(ctx, sub.Patient)
		if err != nil {
			q.logger.Error().Err(err).Str("stage", string(StageCreatePatient)).Msg("submission failed")
			return receipt, &SubmitError{Stage: StageCreatePatient, Err: err}
		}
		if created.ID == "" {
			err := errors.New("service returned no patient identifier")
			return receipt, &SubmitError{Stage: StageCreatePatient, Err: err}
		}
		receipt.PatientID = created.ID
		q.logger.Info().Str("patient_id", created.ID).Msg("patient created")
	} else {
		q.logger.Info().Str("patient_id", receipt.PatientID).Msg("reusing patient from earlier attempt")
	}

	consultation, err := q.svc.CreateConsultation(ctx, sub.Request(receipt.PatientID))
	if err != nil {
		q.logger.Error().Err(err).Str("stage", string(StageCreateConsultation)).Msg("submission failed")
		return receipt, &SubmitError{Stage: StageCreateConsultation, Err: err}
	}
	if consultation.ID == "" {
		err := errors.New("service returned no consultation identifier")
		return receipt, &SubmitError{Stage: StageCreateConsultation, Err: err}
	}
	receipt.ConsultationID = consultation.ID
	q.logger.Info().Str("consultation_id", consultation.ID).Msg("consultation created")
	return receipt, nil
}
