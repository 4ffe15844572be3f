// Package wizard provides the interactive TUI that walks a patient through
// the five intake steps.
package wizard

import "github.com/mrsinham/triagewizard/internal/intake"

// State holds the answers used to prefill the wizard.
type State struct {
	Patient   intake.Patient
	Symptoms  intake.SymptomReport
	FollowUps intake.FollowUpAnswers
}
