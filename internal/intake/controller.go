package intake

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Controller owns the state of one intake session: the step cursor and the
// patient, symptom and follow-up data. All mutation goes through its
// methods; getters return copies.
type Controller struct {
	svc Service
	seq *Sequencer

	step     Step
	patient  Patient
	symptoms SymptomReport
	answers  FollowUpAnswers

	sessionKey     string
	patientID      string
	consultationID string
}

// NewController starts a session at the Introduction step.
func NewController(svc Service, logger zerolog.Logger) *Controller {
	c := &Controller{
		svc: svc,
		seq: NewSequencer(svc, logger),
	}
	c.Restart()
	return c
}

// Restart discards the session and returns to the Introduction step.
func (c *Controller) Restart() {
	c.step = StepIntroduction
	c.patient = Patient{}
	c.symptoms = SymptomReport{}
	c.answers = FollowUpAnswers{}
	c.sessionKey = uuid.NewString()
	c.patientID = ""
	c.consultationID = ""
}

// Step returns the current step.
func (c *Controller) Step() Step { return c.step }

// Patient returns a copy of the held patient.
func (c *Controller) Patient() Patient { return c.patient.Clone() }

// Symptoms returns a copy of the held symptom report.
func (c *Controller) Symptoms() SymptomReport { return c.symptoms.Clone() }

// FollowUps returns a copy of the held follow-up answers.
func (c *Controller) FollowUps() FollowUpAnswers { return c.answers.Clone() }

// SessionKey returns the idempotency key sent with this session's requests.
func (c *Controller) SessionKey() string { return c.sessionKey }

// PatientID returns the service identifier of the patient, once created.
func (c *Controller) PatientID() string { return c.patientID }

// ConsultationID returns the service identifier of the consultation, once created.
func (c *Controller) ConsultationID() string { return c.consultationID }

// Submitted reports whether the consultation exists on the service.
func (c *Controller) Submitted() bool { return c.consultationID != "" }

// SummaryReady reports whether the Summary step can render.
func (c *Controller) SummaryReady() bool {
	return c.step == StepSummary && c.consultationID != ""
}

// SetPatient replaces the patient. Once the patient was created on the
// service only an identical value is accepted.
func (c *Controller) SetPatient(p Patient) error {
	p.ID = ""
	if p.Equal(c.patient) {
		return nil
	}
	if c.patientID != "" {
		return fmt.Errorf("set patient: %w", ErrFrozen)
	}
	c.patient = p.Clone()
	c.rotateSessionKey()
	return nil
}

// rotateSessionKey gives changed data a fresh idempotency key, so a request
// whose response was lost is never replayed against edited data.
func (c *Controller) rotateSessionKey() {
	c.sessionKey = uuid.NewString()
}

// SetSymptoms replaces the symptom report and drops follow-up answers for
// symptoms no longer selected. Once the consultation exists only an
// identical report is accepted.
func (c *Controller) SetSymptoms(r SymptomReport) error {
	sel := NewSelector(SymptomReport{})
	sel.SetSelected(r.Symptoms)
	sel.SetDuration(r.Duration)
	sel.SetSeverity(r.Severity)
	sel.SetDetails(r.AdditionalDetails)
	report := sel.Report()
	if report.Equal(c.symptoms) {
		return nil
	}
	if c.consultationID != "" {
		return fmt.Errorf("set symptoms: %w", ErrFrozen)
	}
	c.symptoms = report
	c.answers = c.answers.Restrict(c.symptoms)
	c.rotateSessionKey()
	return nil
}

// SetFollowUps replaces the follow-up answers, keeping only symptoms that are
// selected and have follow-up questions. Once the consultation exists only
// identical answers are accepted.
func (c *Controller) SetFollowUps(a FollowUpAnswers) error {
	kept := FollowUpAnswers{}
	for s, answers := range a.Restrict(c.symptoms) {
		for key, option := range answers {
			if err := kept.Set(s, key, option); err != nil {
				return fmt.Errorf("set follow-ups: %w", err)
			}
		}
	}
	if slices.Equal(kept.Entries(), c.answers.Entries()) {
		return nil
	}
	if c.consultationID != "" {
		return fmt.Errorf("set follow-ups: %w", ErrFrozen)
	}
	c.answers = kept
	c.rotateSessionKey()
	return nil
}

// Advance moves to the next step. Leaving Patient Info requires a valid
// patient, leaving Symptoms requires a selection and leaving Follow-up
// submits the consultation unless this session already did.
func (c *Controller) Advance(ctx context.Context) error {
	switch c.step {
	case StepPatientInfo:
		if !ValidatePatient(c.patient).OK() {
			return ErrInvalidPatient
		}
	case StepSymptoms:
		if len(c.symptoms.Symptoms) == 0 {
			return ErrNoSymptoms
		}
	case StepFollowUp:
		if c.consultationID == "" {
			sub, err := c.PrepareSubmission()
			if err != nil {
				return err
			}
			receipt, err := c.seq.Submit(ctx, sub)
			if err != nil {
				c.ApplyFailure(receipt)
				return err
			}
			return c.ApplyReceipt(receipt)
		}
	}

	next, err := c.step.Next()
	if err != nil {
		return err
	}
	c.step = next
	return nil
}

// Retreat moves to the previous step. Entered data is kept.
func (c *Controller) Retreat() error {
	prev, err := c.step.Prev()
	if err != nil {
		return err
	}
	c.step = prev
	return nil
}

// Sequencer returns the sequencer used for submissions.
func (c *Controller) Sequencer() *Sequencer { return c.seq }

// PrepareSubmission snapshots the session for Sequencer.Submit. It is only
// valid on the Follow-up step, before the consultation exists.
func (c *Controller) PrepareSubmission() (Submission, error) {
	if c.step != StepFollowUp {
		return Submission{}, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, c.step)
	}
	if c.consultationID != "" {
		return Submission{}, fmt.Errorf("submit: %w", ErrFrozen)
	}
	if !ValidatePatient(c.patient).OK() {
		return Submission{}, ErrInvalidPatient
	}
	if len(c.symptoms.Symptoms) == 0 {
		return Submission{}, ErrNoSymptoms
	}
	return Submission{
		SessionKey: c.sessionKey,
		PatientID:  c.patientID,
		Patient:    c.patient.Clone(),
		Symptoms:   c.symptoms.Clone(),
		FollowUps:  c.answers.Entries(),
	}, nil
}

// ApplyReceipt stores a successful submission and moves to the Summary step.
func (c *Controller) ApplyReceipt(r Receipt) error {
	if r.ConsultationID == "" {
		return fmt.Errorf("apply receipt: %w", ErrNotSubmitted)
	}
	if c.step != StepFollowUp {
		return fmt.Errorf("%w: receipt applied on %s", ErrInvalidTransition, c.step)
	}
	c.patientID = r.PatientID
	c.consultationID = r.ConsultationID
	c.step = StepSummary
	return nil
}

// ApplyFailure keeps the patient created by a failed submission so that the
// retry does not create it twice. The step does not change.
func (c *Controller) ApplyFailure(r Receipt) {
	if r.PatientID != "" {
		c.patientID = r.PatientID
	}
}

// FetchSummary reads the consultation report from the service.
func (c *Controller) FetchSummary(ctx context.Context) (Consultation, error) {
	if c.consultationID == "" {
		return Consultation{}, ErrNotSubmitted
	}
	return c.svc.ConsultationSummary(ctx, c.consultationID)
}
