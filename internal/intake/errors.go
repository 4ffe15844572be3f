package intake

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a move leaves the five steps.
	ErrInvalidTransition = errors.New("invalid step transition")
	// ErrInvalidPatient is returned when leaving Patient Info with missing fields.
	ErrInvalidPatient = errors.New("patient information is incomplete")
	// ErrNoSymptoms is returned when leaving Symptoms with nothing selected.
	ErrNoSymptoms = errors.New("select at least one symptom")
	// ErrFrozen is returned by setters once the record exists server-side.
	ErrFrozen = errors.New("record already submitted")
	// ErrNotSubmitted is returned when the summary is requested before submission.
	ErrNotSubmitted = errors.New("consultation not submitted")
)

// ServiceUnavailableMessage is the banner shown for any remote failure.
const ServiceUnavailableMessage = "We could not reach the consultation service. Please check your connection and try again."

// Stage names the remote call a submission failed on.
type Stage string

const (
	StageCreatePatient      Stage = "create patient"
	StageCreateConsultation Stage = "create consultation"
)

// SubmitError wraps a failed remote call during submission.
type SubmitError struct {
	Stage Stage
	Err   error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
