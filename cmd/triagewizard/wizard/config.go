package wizard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the answers document used to prefill the wizard with --from.
type Config struct {
	Patient   PatientYAML                  `yaml:"patient"`
	Symptoms  SymptomsYAML                 `yaml:"symptoms"`
	FollowUps map[string]map[string]string `yaml:"follow_ups,omitempty"`
}

// PatientYAML holds the patient answers.
type PatientYAML struct {
	FullName           string   `yaml:"full_name"`
	Age                int      `yaml:"age"`
	Gender             string   `yaml:"gender"`
	Phone              string   `yaml:"phone"`
	MedicalHistory     []string `yaml:"medical_history,omitempty"`
	CurrentMedications string   `yaml:"current_medications,omitempty"`
}

// SymptomsYAML holds the symptom answers. Symptoms are catalog labels.
type SymptomsYAML struct {
	Selected          []string `yaml:"selected"`
	Duration          string   `yaml:"duration,omitempty"`
	Severity          int      `yaml:"severity"`
	AdditionalDetails string   `yaml:"additional_details,omitempty"`
}

// LoadFromYAML reads an answers document and converts it to wizard state.
func LoadFromYAML(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading answers file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing answers file: %w", err)
	}

	state, err := cfg.ToState()
	if err != nil {
		return nil, fmt.Errorf("answers file %s: %w", path, err)
	}
	return state, nil
}

// SaveToYAML writes state as an answers document.
func SaveToYAML(state *State, path string) error {
	data, err := yaml.Marshal(FromState(state))
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing answers file: %w", err)
	}
	return nil
}
