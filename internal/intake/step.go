// Package intake implements the guided triage intake: steps, validation,
// symptom follow-ups and the submission of a consultation.
package intake

import "fmt"

// Step is a position in the intake wizard.
type Step int

const (
	StepIntroduction Step = iota + 1
	StepPatientInfo
	StepSymptoms
	StepFollowUp
	StepSummary
)

// transition lists the neighbours of a step. A zero value means no move.
type transition struct {
	next Step
	prev Step
}

var transitions = map[Step]transition{
	StepIntroduction: {next: StepPatientInfo},
	StepPatientInfo:  {next: StepSymptoms, prev: StepIntroduction},
	StepSymptoms:     {next: StepFollowUp, prev: StepPatientInfo},
	StepFollowUp:     {next: StepSummary, prev: StepSymptoms},
	StepSummary:      {prev: StepFollowUp},
}

// Steps returns all steps in display order.
func Steps() []Step {
	return []Step{StepIntroduction, StepPatientInfo, StepSymptoms, StepFollowUp, StepSummary}
}

// Title returns the label shown in the progress stepper.
func (s Step) Title() string {
	switch s {
	case StepIntroduction:
		return "Introduction"
	case StepPatientInfo:
		return "Patient Info"
	case StepSymptoms:
		return "Symptoms"
	case StepFollowUp:
		return "Follow-up"
	case StepSummary:
		return "Summary"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

func (s Step) String() string { return s.Title() }

// Valid reports whether s is one of the five wizard steps.
func (s Step) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Next returns the step after s, or an error at the last step.
func (s Step) Next() (Step, error) {
	t, ok := transitions[s]
	if !ok || t.next == 0 {
		return s, fmt.Errorf("%w: no step after %s", ErrInvalidTransition, s)
	}
	return t.next, nil
}

// Prev returns the step before s, or an error at the first step.
func (s Step) Prev() (Step, error) {
	t, ok := transitions[s]
	if !ok || t.prev == 0 {
		return s, fmt.Errorf("%w: no step before %s", ErrInvalidTransition, s)
	}
	return t.prev, nil
}
