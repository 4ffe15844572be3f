package wizard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/components"
	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/screens"
	"github.com/mrsinham/triagewizard/internal/intake"
)

// Phase represents the current phase/screen of the wizard.
type Phase int

const (
	PhaseIntroduction Phase = iota
	PhasePatient
	PhaseSymptoms
	PhaseFollowUp
	PhaseSubmitting
	PhaseLoadingSummary
	PhaseSummary
	PhaseExport
)

// DefaultExportPath is proposed when saving a summary.
const DefaultExportPath = "consultation-summary.yaml"

// submitResultMsg carries the outcome of a submission.
type submitResultMsg struct {
	receipt intake.Receipt
	err     error
}

// summaryMsg carries the outcome of a summary fetch.
type summaryMsg struct {
	consultation intake.Consultation
	err          error
}

// Wizard is the main orchestrator for the wizard interface. It is the only
// owner of the intake controller; service calls run in commands that report
// back through messages.
type Wizard struct {
	ctx    context.Context
	svc    intake.Service
	ctrl   *intake.Controller
	logger zerolog.Logger
	now    func() time.Time

	// Current phase
	phase Phase

	// Screen instances
	introScreen    *screens.IntroScreen
	patientScreen  *screens.PatientScreen
	symptomsScreen *screens.SymptomsScreen
	followUpScreen *screens.FollowUpScreen
	progressScreen *screens.ProgressScreen
	summaryScreen  *screens.SummaryScreen

	// Snapshot handed to the running submission
	submission intake.Submission

	// Last fetched report
	consultation *intake.Consultation
	summaryErr   error

	// Export dialog
	exportForm *huh.Form
	exportPath string

	// Window size
	width  int
	height int

	// Final state
	cancelled bool
	finished  bool
}

// NewWizard creates a wizard on svc. A non-nil state prefills the forms.
func NewWizard(ctx context.Context, svc intake.Service, logger zerolog.Logger, state *State) *Wizard {
	w := &Wizard{
		ctx:    ctx,
		svc:    svc,
		ctrl:   intake.NewController(svc, logger),
		logger: logger,
		now:    time.Now,
		phase:  PhaseIntroduction,
	}

	if state != nil {
		if err := w.ctrl.SetPatient(state.Patient); err != nil {
			logger.Warn().Err(err).Msg("ignoring prefilled patient")
		}
		if err := w.ctrl.SetSymptoms(state.Symptoms); err != nil {
			logger.Warn().Err(err).Msg("ignoring prefilled symptoms")
		}
		if err := w.ctrl.SetFollowUps(state.FollowUps); err != nil {
			logger.Warn().Err(err).Msg("ignoring prefilled follow-up answers")
		}
	}

	w.introScreen = screens.NewIntroScreen()

	return w
}

// Init implements tea.Model.
func (w *Wizard) Init() tea.Cmd {
	return w.introScreen.Init()
}

// Update implements tea.Model.
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window size for all phases
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = wsm.Width
		w.height = wsm.Height
	}

	switch w.phase {
	case PhaseIntroduction:
		return w.updateIntroduction(msg)
	case PhasePatient:
		return w.updatePatient(msg)
	case PhaseSymptoms:
		return w.updateSymptoms(msg)
	case PhaseFollowUp:
		return w.updateFollowUp(msg)
	case PhaseSubmitting:
		return w.updateSubmitting(msg)
	case PhaseLoadingSummary:
		return w.updateLoadingSummary(msg)
	case PhaseSummary:
		return w.updateSummary(msg)
	case PhaseExport:
		return w.updateExport(msg)
	}

	return w, nil
}

// View implements tea.Model.
func (w *Wizard) View() string {
	switch w.phase {
	case PhaseIntroduction:
		return w.introScreen.View()
	case PhasePatient:
		return w.patientScreen.View()
	case PhaseSymptoms:
		return w.symptomsScreen.View()
	case PhaseFollowUp:
		return w.followUpScreen.View()
	case PhaseSubmitting, PhaseLoadingSummary:
		return w.progressScreen.View()
	case PhaseSummary:
		return w.summaryScreen.View()
	case PhaseExport:
		return w.viewExport()
	}

	return ""
}

// Phase returns the current phase.
func (w *Wizard) Phase() Phase { return w.phase }

// Controller returns the intake controller driven by the wizard.
func (w *Wizard) Controller() *intake.Controller { return w.ctrl }

// advance moves the controller forward, logging refused transitions.
func (w *Wizard) advance() error {
	if err := w.ctrl.Advance(w.ctx); err != nil {
		w.logger.Warn().Err(err).Str("step", w.ctrl.Step().String()).Msg("advance refused")
		return err
	}
	return nil
}

// retreat moves the controller back one step.
func (w *Wizard) retreat() error {
	if err := w.ctrl.Retreat(); err != nil {
		w.logger.Warn().Err(err).Str("step", w.ctrl.Step().String()).Msg("retreat refused")
		return err
	}
	return nil
}

// updateIntroduction handles updates on the Introduction step.
func (w *Wizard) updateIntroduction(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.introScreen.Update(msg)
	if is, ok := model.(*screens.IntroScreen); ok {
		w.introScreen = is
	}

	if w.introScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.introScreen.Done() {
		return w.completeIntroduction()
	}

	return w, cmd
}

// completeIntroduction leaves the Introduction step.
func (w *Wizard) completeIntroduction() (tea.Model, tea.Cmd) {
	if err := w.advance(); err != nil {
		return w, nil
	}
	return w.transitionToPatient()
}

// transitionToIntroduction shows the Introduction step.
func (w *Wizard) transitionToIntroduction() (tea.Model, tea.Cmd) {
	w.phase = PhaseIntroduction
	w.introScreen = screens.NewIntroScreen()
	return w, w.introScreen.Init()
}

// transitionToPatient shows the Patient Info step with the held patient.
func (w *Wizard) transitionToPatient() (tea.Model, tea.Cmd) {
	w.phase = PhasePatient
	w.patientScreen = screens.NewPatientScreen(w.ctrl.Patient())
	return w, w.patientScreen.Init()
}

// updatePatient handles updates on the Patient Info step.
func (w *Wizard) updatePatient(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.patientScreen.Update(msg)
	if ps, ok := model.(*screens.PatientScreen); ok {
		w.patientScreen = ps
	}

	if w.patientScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.patientScreen.Back() {
		return w.backFromPatient(w.patientScreen.Patient())
	}

	if w.patientScreen.Done() {
		return w.completePatient(w.patientScreen.Patient())
	}

	return w, cmd
}

// storePatient hands p to the controller. A submitted session keeps the
// patient it was created with.
func (w *Wizard) storePatient(p intake.Patient) {
	if err := w.ctrl.SetPatient(p); err != nil {
		w.logger.Info().Err(err).Msg("patient edits discarded")
	}
}

// backFromPatient keeps the entered values and returns to the Introduction.
func (w *Wizard) backFromPatient(p intake.Patient) (tea.Model, tea.Cmd) {
	w.storePatient(p)
	if err := w.retreat(); err != nil {
		return w.transitionToPatient()
	}
	return w.transitionToIntroduction()
}

// completePatient stores p and moves to the Symptoms step.
func (w *Wizard) completePatient(p intake.Patient) (tea.Model, tea.Cmd) {
	w.storePatient(p)
	if err := w.advance(); err != nil {
		return w.transitionToPatient()
	}
	return w.transitionToSymptoms()
}

// transitionToSymptoms shows the Symptoms step with the held report.
func (w *Wizard) transitionToSymptoms() (tea.Model, tea.Cmd) {
	w.phase = PhaseSymptoms
	w.symptomsScreen = screens.NewSymptomsScreen(w.ctrl.Symptoms())
	return w, w.symptomsScreen.Init()
}

// updateSymptoms handles updates on the Symptoms step.
func (w *Wizard) updateSymptoms(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.symptomsScreen.Update(msg)
	if ss, ok := model.(*screens.SymptomsScreen); ok {
		w.symptomsScreen = ss
	}

	if w.symptomsScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.symptomsScreen.Back() {
		return w.backFromSymptoms(w.symptomsScreen.Report())
	}

	if w.symptomsScreen.Done() {
		return w.completeSymptoms(w.symptomsScreen.Report())
	}

	return w, cmd
}

func (w *Wizard) storeSymptoms(r intake.SymptomReport) {
	if err := w.ctrl.SetSymptoms(r); err != nil {
		w.logger.Info().Err(err).Msg("symptom edits discarded")
	}
}

// backFromSymptoms keeps the report and returns to Patient Info.
func (w *Wizard) backFromSymptoms(r intake.SymptomReport) (tea.Model, tea.Cmd) {
	w.storeSymptoms(r)
	if err := w.retreat(); err != nil {
		return w.transitionToSymptoms()
	}
	return w.transitionToPatient()
}

// completeSymptoms stores r and moves to the Follow-up step.
func (w *Wizard) completeSymptoms(r intake.SymptomReport) (tea.Model, tea.Cmd) {
	w.storeSymptoms(r)
	if err := w.advance(); err != nil {
		return w.transitionToSymptoms()
	}
	return w.transitionToFollowUp("")
}

// transitionToFollowUp shows the Follow-up step, with banner above the
// questions when set.
func (w *Wizard) transitionToFollowUp(banner string) (tea.Model, tea.Cmd) {
	w.phase = PhaseFollowUp
	w.followUpScreen = screens.NewFollowUpScreen(w.ctrl.Symptoms(), w.ctrl.FollowUps())
	w.followUpScreen.SetBanner(banner)
	return w, w.followUpScreen.Init()
}

// updateFollowUp handles updates on the Follow-up step.
func (w *Wizard) updateFollowUp(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.followUpScreen.Update(msg)
	if fs, ok := model.(*screens.FollowUpScreen); ok {
		w.followUpScreen = fs
	}

	if w.followUpScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.followUpScreen.Back() {
		return w.backFromFollowUp(w.followUpScreen.Answers())
	}

	if w.followUpScreen.Done() {
		return w.completeFollowUp(w.followUpScreen.Answers())
	}

	return w, cmd
}

func (w *Wizard) storeFollowUps(a intake.FollowUpAnswers) {
	if err := w.ctrl.SetFollowUps(a); err != nil {
		w.logger.Info().Err(err).Msg("follow-up edits discarded")
	}
}

// backFromFollowUp keeps the answers and returns to Symptoms.
func (w *Wizard) backFromFollowUp(a intake.FollowUpAnswers) (tea.Model, tea.Cmd) {
	w.storeFollowUps(a)
	if err := w.retreat(); err != nil {
		return w.transitionToFollowUp("")
	}
	return w.transitionToSymptoms()
}

// completeFollowUp stores a and submits the consultation. A session that
// already submitted goes straight to the Summary.
func (w *Wizard) completeFollowUp(a intake.FollowUpAnswers) (tea.Model, tea.Cmd) {
	w.storeFollowUps(a)

	if w.ctrl.Submitted() {
		if err := w.advance(); err != nil {
			return w.transitionToFollowUp("")
		}
		return w.startSummaryFetch()
	}

	sub, err := w.ctrl.PrepareSubmission()
	if err != nil {
		w.logger.Warn().Err(err).Msg("submission refused")
		return w.transitionToFollowUp(refusalBanner(err))
	}

	w.submission = sub
	w.phase = PhaseSubmitting
	w.progressScreen = screens.NewProgressScreen(intake.StepFollowUp, "Submitting your consultation...")
	return w, tea.Batch(w.progressScreen.Init(), submitCmd(w.ctx, w.ctrl.Sequencer(), sub))
}

// Banners for submissions refused before any request is sent.
const (
	IncompletePatientBanner = "Patient information is incomplete. Go back to Patient Info to complete it."
	NoSymptomsBanner        = "No symptoms selected. Go back to Symptoms to choose at least one."
)

// refusalBanner describes why PrepareSubmission refused.
func refusalBanner(err error) string {
	switch {
	case errors.Is(err, intake.ErrInvalidPatient):
		return IncompletePatientBanner
	case errors.Is(err, intake.ErrNoSymptoms):
		return NoSymptomsBanner
	default:
		return "Could not submit the consultation: " + err.Error()
	}
}

// submitCmd runs the submission off the update loop. It only touches the
// snapshot it was given.
func submitCmd(ctx context.Context, seq *intake.Sequencer, sub intake.Submission) tea.Cmd {
	return func() tea.Msg {
		receipt, err := seq.Submit(ctx, sub)
		return submitResultMsg{receipt: receipt, err: err}
	}
}

// updateSubmitting waits for the submission result.
func (w *Wizard) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(submitResultMsg); ok {
		return w.applySubmitResult(res)
	}

	model, cmd := w.progressScreen.Update(msg)
	if ps, ok := model.(*screens.ProgressScreen); ok {
		w.progressScreen = ps
	}

	if w.progressScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

// applySubmitResult records the outcome. Failures keep the user on the
// Follow-up step with the service banner.
func (w *Wizard) applySubmitResult(res submitResultMsg) (tea.Model, tea.Cmd) {
	w.submission = intake.Submission{}

	if res.err != nil {
		w.ctrl.ApplyFailure(res.receipt)
		var serr *intake.SubmitError
		if errors.As(res.err, &serr) {
			w.logger.Error().Err(serr.Err).Str("stage", string(serr.Stage)).Msg("consultation not submitted")
		}
		return w.transitionToFollowUp(intake.ServiceUnavailableMessage)
	}

	if err := w.ctrl.ApplyReceipt(res.receipt); err != nil {
		w.logger.Error().Err(err).Msg("applying receipt")
		return w.transitionToFollowUp(intake.ServiceUnavailableMessage)
	}

	w.logger.Info().
		Str("patient_id", res.receipt.PatientID).
		Str("consultation_id", res.receipt.ConsultationID).
		Msg("consultation submitted")
	return w.startSummaryFetch()
}

// startSummaryFetch shows the loading state and fetches the report once.
func (w *Wizard) startSummaryFetch() (tea.Model, tea.Cmd) {
	w.phase = PhaseLoadingSummary
	w.consultation = nil
	w.summaryErr = nil
	w.progressScreen = screens.NewProgressScreen(intake.StepSummary, "Loading...")
	return w, tea.Batch(w.progressScreen.Init(), fetchSummaryCmd(w.ctx, w.svc, w.ctrl.ConsultationID()))
}

// fetchSummaryCmd reads the report for id off the update loop.
func fetchSummaryCmd(ctx context.Context, svc intake.Service, id string) tea.Cmd {
	return func() tea.Msg {
		c, err := svc.ConsultationSummary(ctx, id)
		return summaryMsg{consultation: c, err: err}
	}
}

// updateLoadingSummary waits for the fetched report.
func (w *Wizard) updateLoadingSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(summaryMsg); ok {
		return w.applySummary(res)
	}

	model, cmd := w.progressScreen.Update(msg)
	if ps, ok := model.(*screens.ProgressScreen); ok {
		w.progressScreen = ps
	}

	if w.progressScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

// applySummary shows the fetched report or the failure state.
func (w *Wizard) applySummary(res summaryMsg) (tea.Model, tea.Cmd) {
	if res.err != nil {
		w.logger.Error().Err(res.err).Str("consultation_id", w.ctrl.ConsultationID()).Msg("summary fetch failed")
		w.summaryErr = res.err
		w.consultation = nil
	} else {
		c := res.consultation
		w.consultation = &c
		w.summaryErr = nil
	}
	return w.transitionToSummary()
}

// transitionToSummary shows the summary screen for the last fetch.
func (w *Wizard) transitionToSummary() (tea.Model, tea.Cmd) {
	w.phase = PhaseSummary
	w.summaryScreen = screens.NewSummaryScreen(w.consultation, w.summaryErr)
	return w, w.summaryScreen.Init()
}

// updateSummary handles updates in the summary phase.
func (w *Wizard) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := w.summaryScreen.Update(msg)
	if ss, ok := model.(*screens.SummaryScreen); ok {
		w.summaryScreen = ss
	}

	if w.summaryScreen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}

	if w.summaryScreen.Done() {
		return w.handleSummaryAction(w.summaryScreen.Action())
	}

	return w, cmd
}

// handleSummaryAction runs the action picked on the summary screen.
func (w *Wizard) handleSummaryAction(action screens.SummaryAction) (tea.Model, tea.Cmd) {
	switch action {
	case screens.SummaryActionBack:
		if err := w.retreat(); err != nil {
			return w.transitionToSummary()
		}
		return w.transitionToFollowUp("")

	case screens.SummaryActionExport:
		if w.consultation == nil {
			return w.transitionToSummary()
		}
		return w.transitionToExport()

	case screens.SummaryActionRetry:
		return w.startSummaryFetch()

	case screens.SummaryActionNew:
		w.logger.Info().Str("consultation_id", w.ctrl.ConsultationID()).Msg("starting new consultation")
		w.ctrl.Restart()
		w.consultation = nil
		w.summaryErr = nil
		return w.transitionToIntroduction()

	case screens.SummaryActionQuit:
		w.finished = true
		return w, tea.Quit
	}

	return w, nil
}

// transitionToExport shows the export dialog.
func (w *Wizard) transitionToExport() (tea.Model, tea.Cmd) {
	w.phase = PhaseExport
	w.exportPath = DefaultExportPath

	w.exportForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("export_path").
				Title("Save summary to").
				Description("Enter the path for the YAML file").
				Value(&w.exportPath).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)

	return w, w.exportForm.Init()
}

// updateExport handles updates in the export phase.
func (w *Wizard) updateExport(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			// Go back to summary
			return w.transitionToSummary()
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.exportForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.exportForm = f
	}

	if w.exportForm.State == huh.StateCompleted {
		return w.exportSummary(w.exportPath)
	}

	return w, cmd
}

// exportSummary writes the report to path and returns to the summary with
// the outcome shown.
func (w *Wizard) exportSummary(path string) (tea.Model, tea.Cmd) {
	model, cmd := w.transitionToSummary()

	if w.consultation == nil {
		return model, cmd
	}

	if err := ExportSummary(*w.consultation, path, w.now()); err != nil {
		w.logger.Error().Err(err).Str("path", path).Msg("summary export failed")
		w.summaryScreen.SetNotice(fmt.Sprintf("Could not save summary: %v", err), true)
		return model, cmd
	}

	shown := path
	if abs, err := filepath.Abs(path); err == nil {
		shown = abs
	}
	w.logger.Info().Str("path", shown).Msg("summary exported")
	w.summaryScreen.SetNotice("Summary saved to "+shown, false)
	return model, cmd
}

// viewExport renders the export dialog.
func (w *Wizard) viewExport() string {
	title := components.TitleStyle.Render("Save Summary")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		w.exportForm.View(),
		"",
		components.HintStyle.Render("Enter: Save | Esc: Back"),
	)
}

// Options configures Run.
type Options struct {
	Service intake.Service
	Logger  zerolog.Logger
	// FromFile prefills the forms from an answers document.
	FromFile string
	// SaveAnswers, when set, receives the session's answers on exit.
	SaveAnswers string
}

// Run starts the interactive wizard on the given service.
func Run(ctx context.Context, opts Options) error {
	var state *State

	// Load answers if provided
	if opts.FromFile != "" {
		absPath, err := filepath.Abs(opts.FromFile)
		if err != nil {
			return fmt.Errorf("resolving answers path: %w", err)
		}

		loaded, err := LoadFromYAML(absPath)
		if err != nil {
			return fmt.Errorf("loading answers: %w", err)
		}
		state = loaded
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Create and run the wizard
	wizard := NewWizard(ctx, opts.Service, opts.Logger, state)
	p := tea.NewProgram(wizard, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running wizard: %w", err)
	}

	// Check final state
	w, ok := finalModel.(*Wizard)
	if !ok {
		return nil
	}
	if opts.SaveAnswers != "" {
		saved, err := saveAnswers(w.ctrl, opts.SaveAnswers)
		if err != nil {
			opts.Logger.Warn().Err(err).Msg("could not save answers")
			fmt.Fprintf(os.Stderr, "Warning: could not save answers: %v\n", err)
		} else if saved {
			fmt.Printf("Answers saved to %s\n", opts.SaveAnswers)
		}
	}
	if w.cancelled {
		opts.Logger.Info().Msg("wizard cancelled")
		return nil // User cancelled, not an error
	}
	if w.finished {
		opts.Logger.Info().Str("consultation_id", w.ctrl.ConsultationID()).Msg("wizard finished")
	}

	return nil
}

// saveAnswers writes the answers held by c, skipping an untouched session.
func saveAnswers(c *intake.Controller, path string) (bool, error) {
	state := stateFromController(c)
	if state.Patient.FullName == "" && len(state.Symptoms.Symptoms) == 0 {
		return false, nil
	}
	if err := SaveToYAML(state, path); err != nil {
		return false, err
	}
	return true, nil
}
