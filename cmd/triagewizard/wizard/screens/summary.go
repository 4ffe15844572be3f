package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/components"
	"github.com/mrsinham/triagewizard/internal/intake"
)

// SummaryAction represents the action selected on the summary screen
type SummaryAction int

const (
	// SummaryActionBack returns to the Follow-up step
	SummaryActionBack SummaryAction = iota
	// SummaryActionExport writes the summary to a YAML file
	SummaryActionExport
	// SummaryActionNew starts a new consultation
	SummaryActionNew
	// SummaryActionRetry fetches the summary again
	SummaryActionRetry
	// SummaryActionQuit exits the wizard
	SummaryActionQuit
)

const (
	actionBack   = "back"
	actionExport = "export"
	actionNew    = "new"
	actionRetry  = "retry"
	actionQuit   = "quit"
)

// SummaryLoadFailed is shown when the summary could not be fetched.
const SummaryLoadFailed = "Failed to load summary."

var (
	summaryPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Padding(1, 2)

	summaryTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true)

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)

	riskStyles = map[intake.RiskLevel]lipgloss.Style{
		intake.RiskLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		intake.RiskMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		intake.RiskHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// SummaryScreen displays the consultation report fetched from the service
type SummaryScreen struct {
	form         *huh.Form
	consultation *intake.Consultation
	err          error
	notice       string
	noticeFailed bool
	now          func() time.Time
	action       string
	done         bool
	cancelled    bool
	width        int
	height       int
}

// NewSummaryScreen creates a summary screen for c. When err is set the
// screen offers to retry instead of showing the report.
func NewSummaryScreen(c *intake.Consultation, err error) *SummaryScreen {
	s := &SummaryScreen{
		consultation: c,
		err:          err,
		now:          time.Now,
	}

	var options []huh.Option[string]
	if err != nil || c == nil {
		s.action = actionRetry
		options = []huh.Option[string]{
			huh.NewOption("Try again", actionRetry),
			huh.NewOption("Back", actionBack),
			huh.NewOption("Start New Consultation", actionNew),
			huh.NewOption("Quit", actionQuit),
		}
	} else {
		s.action = actionNew
		options = []huh.Option[string]{
			huh.NewOption("Back", actionBack),
			huh.NewOption("Save summary to YAML", actionExport),
			huh.NewOption("Start New Consultation", actionNew),
			huh.NewOption("Quit", actionQuit),
		}
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("action").
				Title("Select an action").
				Options(options...).
				Value(&s.action),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *SummaryScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *SummaryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
			// Esc goes back instead of cancelling
			s.action = actionBack
			s.done = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.done = true
	}

	return s, cmd
}

// View implements tea.Model
func (s *SummaryScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	parts := []string{
		components.Stepper(intake.StepSummary),
		"",
		components.TitleStyle.Render("Consultation Summary"),
	}

	if s.err != nil || s.consultation == nil {
		parts = append(parts,
			components.ErrorStyle.Render(SummaryLoadFailed),
			intake.ServiceUnavailableMessage,
		)
	} else {
		report := RenderConsultation(*s.consultation, s.now())
		width := 80
		if s.width > 0 && s.width-4 < width {
			width = s.width - 4
		}
		parts = append(parts, summaryPanelStyle.Width(width).Render(report))
	}

	if s.notice != "" {
		style := components.SuccessStyle
		if s.noticeFailed {
			style = components.ErrorStyle
		}
		parts = append(parts, "", style.Render(s.notice))
	}

	parts = append(parts,
		"",
		s.form.View(),
		"",
		components.HintStyle.Render("Enter: Select action | Esc: Back"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RenderConsultation formats the report sections of c.
func RenderConsultation(c intake.Consultation, now time.Time) string {
	var sb strings.Builder

	section := func(title string) {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(summaryTitleStyle.Render(title))
		sb.WriteString("\n")
	}
	field := func(label, value string) {
		sb.WriteString(summaryLabelStyle.Render(label + ": "))
		sb.WriteString(summaryValueStyle.Render(value))
		sb.WriteString("\n")
	}
	list := func(items []string) {
		if len(items) == 0 {
			sb.WriteString(summaryLabelStyle.Render("  None"))
			sb.WriteString("\n")
			return
		}
		for _, item := range items {
			sb.WriteString("  • ")
			sb.WriteString(item)
			sb.WriteString("\n")
		}
	}

	p := c.Patient
	section("Patient Information")
	field("Name", p.FullName)
	field("Age", fmt.Sprintf("%d", p.Age))
	field("Gender", p.Gender.Label())
	field("Phone", p.Phone)
	field("Medical History", joinOr(p.MedicalHistory, ", ", "None"))
	if p.CurrentMedications != "" {
		field("Current Medications", p.CurrentMedications)
	}

	var symptoms, durations, details []string
	for _, r := range c.Symptoms {
		symptoms = append(symptoms, strings.Join(r.Labels(), ", "))
		durations = append(durations, string(r.Duration))
		details = append(details, r.AdditionalDetails)
	}
	section("Symptoms Reported")
	field("Primary Symptoms", strings.Join(symptoms, "; "))
	field("Duration", joinOr(durations, ", ", "Not specified"))
	field("Pain Level", c.PainLevelLabel())
	field("Additional Details", joinOr(details, ", ", "None"))

	if len(c.FollowUps) > 0 {
		section("Follow-up Answers")
		for _, f := range c.FollowUps {
			field(f.Question, f.Answer)
		}
	}

	section("Risk Assessment")
	if c.RiskAssessment != nil {
		level := c.RiskAssessment.Level
		style, ok := riskStyles[level]
		if !ok {
			style = summaryValueStyle
		}
		sb.WriteString(style.Render(strings.ToUpper(string(level)) + " Risk"))
		sb.WriteString("\n")
		list(c.RiskAssessment.Factors)
	} else {
		sb.WriteString(summaryLabelStyle.Render("Not available"))
		sb.WriteString("\n")
	}

	section("Recommendations")
	list(c.Recommendations)

	section("Next Actions")
	list(c.NextActions)

	sb.WriteString("\n")
	when := "unknown"
	if !c.CreatedAt.IsZero() {
		when = fmt.Sprintf("%s (%s)", c.CreatedAt.Local().Format("2006-01-02 15:04"), humanize.RelTime(c.CreatedAt, now, "ago", "from now"))
	}
	field("Consultation Time", fmt.Sprintf("%s, duration %d minutes", when, c.ConsultationDuration))

	return sb.String()
}

func joinOr(items []string, sep, empty string) string {
	var kept []string
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return empty
	}
	return strings.Join(kept, sep)
}

// SetNotice shows msg under the report, e.g. after an export
func (s *SummaryScreen) SetNotice(msg string, failed bool) {
	s.notice = msg
	s.noticeFailed = failed
}

// Notice returns the message shown under the report
func (s *SummaryScreen) Notice() string { return s.notice }

// Done returns true if an action was selected
func (s *SummaryScreen) Done() bool { return s.done }

// Cancelled returns true if the user cancelled
func (s *SummaryScreen) Cancelled() bool { return s.cancelled }

// Consultation returns the displayed consultation, nil on failure
func (s *SummaryScreen) Consultation() *intake.Consultation { return s.consultation }

// Action returns the selected action
func (s *SummaryScreen) Action() SummaryAction {
	switch s.action {
	case actionBack:
		return SummaryActionBack
	case actionExport:
		return SummaryActionExport
	case actionRetry:
		return SummaryActionRetry
	case actionQuit:
		return SummaryActionQuit
	default:
		return SummaryActionNew
	}
}
