package wizard

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrsinham/triagewizard/internal/intake"
)

// ToState converts the answers document to wizard state. Values are checked
// against the catalogs but not validated for completeness; the wizard still
// validates every step.
func (c Config) ToState() (*State, error) {
	state := &State{
		Patient: intake.Patient{
			FullName:           c.Patient.FullName,
			Age:                c.Patient.Age,
			Phone:              c.Patient.Phone,
			MedicalHistory:     append([]string(nil), c.Patient.MedicalHistory...),
			CurrentMedications: c.Patient.CurrentMedications,
		},
		FollowUps: intake.FollowUpAnswers{},
	}

	if c.Patient.Gender != "" {
		g, err := intake.ParseGender(c.Patient.Gender)
		if err != nil {
			return nil, err
		}
		state.Patient.Gender = g
	}

	sel := intake.NewSelector(intake.SymptomReport{})
	for _, label := range c.Symptoms.Selected {
		s, err := intake.ParseSymptom(label)
		if err != nil {
			return nil, err
		}
		if !sel.Report().Has(s) {
			sel.Toggle(s)
		}
	}
	d, err := intake.ParseSymptomDuration(c.Symptoms.Duration)
	if err != nil {
		return nil, err
	}
	sel.SetDuration(d)
	if c.Symptoms.Severity < intake.MinSeverity || c.Symptoms.Severity > intake.MaxSeverity {
		return nil, fmt.Errorf("severity %d out of range %d-%d", c.Symptoms.Severity, intake.MinSeverity, intake.MaxSeverity)
	}
	sel.SetSeverity(c.Symptoms.Severity)
	sel.SetDetails(c.Symptoms.AdditionalDetails)
	state.Symptoms = sel.Report()

	for label, answers := range c.FollowUps {
		s, err := intake.ParseSymptom(label)
		if err != nil {
			return nil, err
		}
		for key, option := range answers {
			if err := state.FollowUps.Set(s, key, option); err != nil {
				return nil, err
			}
		}
	}
	state.FollowUps = state.FollowUps.Restrict(state.Symptoms)

	return state, nil
}

// FromState creates an answers document from wizard state.
func FromState(s *State) Config {
	cfg := Config{
		Patient: PatientYAML{
			FullName:           s.Patient.FullName,
			Age:                s.Patient.Age,
			Gender:             string(s.Patient.Gender),
			Phone:              s.Patient.Phone,
			MedicalHistory:     append([]string(nil), s.Patient.MedicalHistory...),
			CurrentMedications: s.Patient.CurrentMedications,
		},
		Symptoms: SymptomsYAML{
			Selected:          s.Symptoms.Labels(),
			Duration:          string(s.Symptoms.Duration),
			Severity:          s.Symptoms.Severity,
			AdditionalDetails: s.Symptoms.AdditionalDetails,
		},
	}

	for sym, answers := range s.FollowUps {
		if len(answers) == 0 {
			continue
		}
		if cfg.FollowUps == nil {
			cfg.FollowUps = make(map[string]map[string]string)
		}
		m := make(map[string]string, len(answers))
		for k, v := range answers {
			m[k] = v
		}
		cfg.FollowUps[sym.String()] = m
	}

	return cfg
}

// stateFromController snapshots the answers held by c.
func stateFromController(c *intake.Controller) *State {
	return &State{
		Patient:   c.Patient(),
		Symptoms:  c.Symptoms(),
		FollowUps: c.FollowUps(),
	}
}

// summaryDocument is the exported consultation report.
type summaryDocument struct {
	Consultation intake.Consultation `yaml:"consultation"`
	ExportedAt   time.Time           `yaml:"exported_at"`
}

// ExportSummary writes the consultation report to path as YAML.
func ExportSummary(c intake.Consultation, path string, exportedAt time.Time) error {
	data, err := yaml.Marshal(summaryDocument{Consultation: c, ExportedAt: exportedAt})
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
