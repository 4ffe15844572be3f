// Package mockapi is an in-memory stand-in for the e-Likita consultation
// service. It serves the three routes the wizard calls and assesses risk with
// fixed rules.
package mockapi

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mrsinham/triagewizard/internal/intake"
)

// IdempotencyHeader deduplicates repeated POSTs.
const IdempotencyHeader = "Idempotency-Key"

// Route names accepted by Server.Fail.
const (
	RouteCreatePatient       = "create-patient"
	RouteCreateConsultation  = "create-consultation"
	RouteConsultationSummary = "consultation-summary"
)

// Server handles the consultation API.
type Server struct {
	store    *Store
	assessor *Assessor
	logger   zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	faults map[string]int
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithAssessor replaces the default assessor.
func WithAssessor(a *Assessor) Option {
	return func(s *Server) { s.assessor = a }
}

// NewServer creates a server with an empty store.
func NewServer(logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		store:    NewStore(),
		assessor: NewAssessor(DefaultAssessorConfig()),
		logger:   logger,
		now:      time.Now,
		faults:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the backing store.
func (s *Server) Store() *Store { return s.store }

// Fail makes route answer with status until Recover is called.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[route] = status
}

// Recover clears every injected failure.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.faults)
}

func (s *Server) fault(route string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status, ok := s.faults[route]; ok {
		return echo.NewHTTPError(status, http.StatusText(status))
	}
	return nil
}

// Echo builds the HTTP handler. Routes are mounted under prefix, usually "/api".
func (s *Server) Echo(prefix string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(Recovery(s.logger))
	e.Use(RequestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group(strings.TrimRight(prefix, "/"))
	s.RegisterRoutes(g)
	return e
}

// RegisterRoutes mounts the API on g.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/patients", s.CreatePatient)
	g.POST("/consultations", s.CreateConsultation)
	g.GET("/consultations/:id/summary", s.ConsultationSummary)
}

func replayKey(c echo.Context) string {
	key := c.Request().Header.Get(IdempotencyHeader)
	if key == "" {
		return ""
	}
	return c.Request().URL.Path + "|" + key
}

// CreatePatient handles POST /patients.
func (s *Server) CreatePatient(c echo.Context) error {
	if err := s.fault(RouteCreatePatient); err != nil {
		return err
	}
	var p intake.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient payload")
	}
	if errs := intake.ValidatePatient(p); !errs.OK() {
		return echo.NewHTTPError(http.StatusBadRequest, errs[errs.Fields()[0]])
	}

	created, err := s.store.AddPatient(replayKey(c), Fingerprint(p), p)
	if errors.Is(err, ErrReplayMismatch) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    created,
	})
}

// CreateConsultation handles POST /consultations.
func (s *Server) CreateConsultation(c echo.Context) error {
	if err := s.fault(RouteCreateConsultation); err != nil {
		return err
	}
	var req intake.ConsultationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultation payload")
	}
	if req.Patient == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Patient is required")
	}
	if len(req.Symptoms) == 0 || len(req.Symptoms[0].Symptoms) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "At least one symptom is required")
	}
	patient, err := s.store.Patient(req.Patient)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	}

	assessment := s.assessor.Assess(patient, req)
	consultation, created, err := s.store.AddConsultation(replayKey(c), Fingerprint(req), intake.Consultation{
		Patient:         patient,
		Symptoms:        req.Symptoms,
		FollowUps:       req.FollowUps,
		PainLevel:       req.PainLevel,
		RiskAssessment:  &assessment.Risk,
		Recommendations: assessment.Recommendations,
		NextActions:     assessment.NextActions,
		Status:          intake.StatusOngoing,
		CreatedAt:       s.now().UTC(),
	})
	if errors.Is(err, ErrReplayMismatch) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if created {
		s.logger.Info().
			Str("consultation_id", consultation.ID).
			Str("risk", string(assessment.Risk.Level)).
			Msg("consultation assessed")
	}
	return c.JSON(http.StatusCreated, consultation)
}

// ConsultationSummary handles GET /consultations/:id/summary. The first
// fetch completes the consultation and fixes its duration.
func (s *Server) ConsultationSummary(c echo.Context) error {
	if err := s.fault(RouteConsultationSummary); err != nil {
		return err
	}
	consultation, err := s.store.Consultation(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Consultation not found")
	}

	if consultation.Status != intake.StatusCompleted {
		consultation.Status = intake.StatusCompleted
		consultation.ConsultationDuration = max(1, int(s.now().Sub(consultation.CreatedAt).Round(time.Minute).Minutes()))
		if err := s.store.UpdateConsultation(consultation); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, consultation)
}
