package screens

import (
	"slices"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/components"
	"github.com/mrsinham/triagewizard/internal/intake"
)

// SymptomsScreen collects the symptom report
type SymptomsScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	selector  *intake.Selector

	selected []intake.Symptom
	duration string
	severity int
	details  string

	done      bool
	back      bool
	cancelled bool
	width     int
	height    int
}

// NewSymptomsScreen creates the Symptoms screen prefilled with r
func NewSymptomsScreen(r intake.SymptomReport) *SymptomsScreen {
	s := &SymptomsScreen{
		helpPanel: components.NewHelpPanel(),
		selector:  intake.NewSelector(r),
		selected:  slices.Clone(r.Symptoms),
		duration:  string(r.Duration),
		severity:  r.Severity,
		details:   r.AdditionalDetails,
	}

	symptoms := make([]huh.Option[intake.Symptom], 0, len(intake.Catalog()))
	for _, sym := range intake.Catalog() {
		label := sym.String()
		if sym.Urgent() {
			label += " (!)"
		}
		symptoms = append(symptoms, huh.NewOption(label, sym).Selected(r.Has(sym)))
	}

	durations := []huh.Option[string]{huh.NewOption("Select duration", "")}
	for _, d := range intake.Durations() {
		durations = append(durations, huh.NewOption(string(d), string(d)))
	}

	severities := make([]huh.Option[int], 0, intake.MaxSeverity-intake.MinSeverity+1)
	for v := intake.MinSeverity; v <= intake.MaxSeverity; v++ {
		severities = append(severities, huh.NewOption(strconv.Itoa(v)+"/10", v))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[intake.Symptom]().
				Key("symptoms").
				Title("What symptoms are you experiencing?").
				Options(symptoms...).
				Height(10).
				Value(&s.selected).
				Validate(func(v []intake.Symptom) error {
					if len(v) == 0 {
						return intake.ErrNoSymptoms
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("duration").
				Title("How long have you had these symptoms?").
				Options(durations...).
				Value(&s.duration),

			huh.NewSelect[int]().
				Key("severity").
				Title("How severe is your pain or discomfort?").
				Options(severities...).
				Value(&s.severity),

			huh.NewText().
				Key("additionalDetails").
				Title("Additional Details").
				CharLimit(1000).
				Value(&s.details),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// Init implements tea.Model
func (s *SymptomsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SymptomsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			s.sync()
			s.back = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.helpPanel.SetSize(msg.Width/2, msg.Height/3)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	s.sync()

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted && len(s.selector.Selected()) > 0 {
		s.done = true
	}

	return s, cmd
}

// sync pushes the bound values through the selector, which owns the rules.
func (s *SymptomsScreen) sync() {
	s.selector.SetSelected(s.selected)
	if d, err := intake.ParseSymptomDuration(s.duration); err == nil {
		s.selector.SetDuration(d)
	}
	s.selector.SetSeverity(s.severity)
	s.selector.SetDetails(s.details)
}

// SetSelected replaces the selection, as toggling in the form does
func (s *SymptomsScreen) SetSelected(symptoms []intake.Symptom) {
	s.selected = slices.Clone(symptoms)
	s.sync()
}

// View implements tea.Model
func (s *SymptomsScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	parts := []string{
		components.Stepper(intake.StepSymptoms),
		"",
		components.TitleStyle.Render("Symptoms"),
	}
	if advisory := s.Advisory(); advisory != "" {
		parts = append(parts, components.AdvisoryStyle.Render("⚠ "+advisory), "")
	}
	parts = append(parts,
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Space: Toggle | Enter: Continue | Esc: Back | Ctrl+C: Quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Advisory returns the urgent-care warning, or "" when no urgent symptom is selected
func (s *SymptomsScreen) Advisory() string { return s.selector.Advisory() }

// Done returns true if the form was completed with at least one symptom
func (s *SymptomsScreen) Done() bool { return s.done }

// Back returns true if the user asked for the previous step
func (s *SymptomsScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *SymptomsScreen) Cancelled() bool { return s.cancelled }

// Report returns the entered symptom report
func (s *SymptomsScreen) Report() intake.SymptomReport { return s.selector.Report() }
