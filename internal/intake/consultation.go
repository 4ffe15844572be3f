package intake

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// RiskLevel is the service's overall assessment.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskAssessment is computed by the consultation service.
type RiskAssessment struct {
	Level   RiskLevel `json:"level" yaml:"level"`
	Factors []string  `json:"factors" yaml:"factors"`
}

// ConsultationStatus is the lifecycle state reported by the service.
type ConsultationStatus string

const (
	StatusOngoing   ConsultationStatus = "ongoing"
	StatusCompleted ConsultationStatus = "completed"
)

// Consultation is the service-side record built from a submission. It is
// read-only on this side.
type Consultation struct {
	ID                   string             `json:"_id" yaml:"id"`
	Patient              Patient            `json:"patient" yaml:"patient"`
	Symptoms             []SymptomReport    `json:"symptoms" yaml:"symptoms"`
	FollowUps            []FollowUpEntry    `json:"followUps,omitempty" yaml:"follow_ups,omitempty"`
	PainLevel            int                `json:"painLevel,omitempty" yaml:"pain_level,omitempty"`
	RiskAssessment       *RiskAssessment    `json:"riskAssessment,omitempty" yaml:"risk_assessment,omitempty"`
	Recommendations      []string           `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
	NextActions          []string           `json:"nextActions,omitempty" yaml:"next_actions,omitempty"`
	ConsultationDuration int                `json:"consultationDuration,omitempty" yaml:"duration_minutes,omitempty"`
	Status               ConsultationStatus `json:"status,omitempty" yaml:"status,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" yaml:"created_at"`
}

// PainLevelLabel renders the reported severities as "N/10".
func (c Consultation) PainLevelLabel() string {
	levels := make([]string, 0, len(c.Symptoms))
	for _, s := range c.Symptoms {
		levels = append(levels, strconv.Itoa(s.Severity))
	}
	if len(levels) == 0 {
		levels = append(levels, strconv.Itoa(c.PainLevel))
	}
	return strings.Join(levels, ", ") + "/10"
}

// Duration returns the consultation duration computed by the service.
func (c Consultation) Duration() time.Duration {
	return time.Duration(c.ConsultationDuration) * time.Minute
}

// ConsultationRequest is the payload that creates a consultation.
type ConsultationRequest struct {
	Patient           string          `json:"patient"`
	Symptoms          []SymptomReport `json:"symptoms"`
	PainLevel         int             `json:"painLevel"`
	AdditionalDetails string          `json:"additionalDetails"`
	FollowUps         []FollowUpEntry `json:"followUps"`
}

// Service is the remote consultation service.
type Service interface {
	CreatePatient(ctx context.Context, p Patient) (Patient, error)
	CreateConsultation(ctx context.Context, req ConsultationRequest) (Consultation, error)
	ConsultationSummary(ctx context.Context, id string) (Consultation, error)
}

type idempotencyKey struct{}

// WithIdempotencyKey attaches a deduplication key to the requests made with ctx.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

// IdempotencyKey returns the key attached by WithIdempotencyKey, or "".
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKey{}).(string)
	return key
}
