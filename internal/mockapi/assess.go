package mockapi

import (
	"fmt"
	"slices"

	"github.com/mrsinham/triagewizard/internal/intake"
)

// Assessment is what the service attaches to a consultation.
type Assessment struct {
	Risk            intake.RiskAssessment
	Recommendations []string
	NextActions     []string
}

// AssessorConfig tunes the thresholds of the rule-based assessor.
type AssessorConfig struct {
	HighSeverity   int
	MediumSeverity int
	MediumSymptoms int
}

// DefaultAssessorConfig returns the thresholds used by the stub.
func DefaultAssessorConfig() AssessorConfig {
	return AssessorConfig{
		HighSeverity:   8,
		MediumSeverity: 5,
		MediumSymptoms: 3,
	}
}

// Assessor derives a risk level from the reported symptoms with fixed rules.
type Assessor struct {
	cfg AssessorConfig
}

// NewAssessor creates an assessor. Zero thresholds fall back to defaults.
func NewAssessor(cfg AssessorConfig) *Assessor {
	def := DefaultAssessorConfig()
	if cfg.HighSeverity == 0 {
		cfg.HighSeverity = def.HighSeverity
	}
	if cfg.MediumSeverity == 0 {
		cfg.MediumSeverity = def.MediumSeverity
	}
	if cfg.MediumSymptoms == 0 {
		cfg.MediumSymptoms = def.MediumSymptoms
	}
	return &Assessor{cfg: cfg}
}

// Assess classifies a consultation request for patient p.
func (a *Assessor) Assess(p intake.Patient, req intake.ConsultationRequest) Assessment {
	var (
		urgent   []intake.Symptom
		all      []intake.Symptom
		severity = req.PainLevel
		longRun  bool
	)
	for _, r := range req.Symptoms {
		for _, s := range r.Symptoms {
			if !slices.Contains(all, s) {
				all = append(all, s)
			}
			if s.Urgent() && !slices.Contains(urgent, s) {
				urgent = append(urgent, s)
			}
		}
		severity = max(severity, r.Severity)
		if r.Duration == intake.DurationMoreThanAWeek {
			longRun = true
		}
	}

	var factors []string
	for _, s := range urgent {
		factors = append(factors, "Urgent symptom: "+s.String())
	}
	if severity >= a.cfg.MediumSeverity {
		factors = append(factors, fmt.Sprintf("Pain level %d/10", severity))
	}
	if longRun {
		factors = append(factors, "Symptoms lasting more than a week")
	}
	if len(all) >= a.cfg.MediumSymptoms {
		factors = append(factors, fmt.Sprintf("%d symptoms reported", len(all)))
	}
	if len(p.MedicalHistory) > 0 {
		factors = append(factors, "Pre-existing conditions reported")
	}

	level := intake.RiskLow
	switch {
	case len(urgent) > 0 || severity >= a.cfg.HighSeverity:
		level = intake.RiskHigh
	case severity >= a.cfg.MediumSeverity || longRun || len(all) >= a.cfg.MediumSymptoms:
		level = intake.RiskMedium
	}
	if len(factors) == 0 {
		factors = []string{"No significant risk factors"}
	}

	return Assessment{
		Risk:            intake.RiskAssessment{Level: level, Factors: factors},
		Recommendations: slices.Clone(recommendations[level]),
		NextActions:     slices.Clone(nextActions[level]),
	}
}

var recommendations = map[intake.RiskLevel][]string{
	intake.RiskHigh: {
		"Seek immediate medical attention",
		"Do not drive yourself to the hospital",
		"Keep a list of your symptoms and medications with you",
	},
	intake.RiskMedium: {
		"Schedule an appointment with a healthcare provider",
		"Rest and stay hydrated",
		"Monitor your symptoms for any change",
	},
	intake.RiskLow: {
		"Rest and stay hydrated",
		"Use over-the-counter remedies as appropriate",
		"Monitor your symptoms",
	},
}

var nextActions = map[intake.RiskLevel][]string{
	intake.RiskHigh: {
		"Call emergency services or go to the nearest emergency department",
	},
	intake.RiskMedium: {
		"See a doctor within 48 hours",
		"Return for reassessment if symptoms worsen",
	},
	intake.RiskLow: {
		"Follow up with a doctor if symptoms persist beyond a week",
	},
}
