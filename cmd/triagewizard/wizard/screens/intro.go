package screens

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/components"
	"github.com/mrsinham/triagewizard/internal/intake"
)

const (
	// IntroWelcome is the heading of the Introduction step.
	IntroWelcome = "Welcome to e-Likita Hospital Consultation Assistant"

	// IntroDisclaimer is shown before any data is collected.
	IntroDisclaimer = "Important: This tool is for guidance only and does not replace professional medical advice. In case of emergency, call emergency services immediately."
)

var introExpectations = []string{
	"5-step guided consultation process",
	"Symptom assessment and risk evaluation",
	"Personalized healthcare recommendations",
	"Printable summary for your records",
}

var disclaimerStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(lipgloss.Color("214")).
	Foreground(lipgloss.Color("214")).
	PaddingLeft(1).
	Width(70)

// IntroScreen welcomes the user and explains the consultation
type IntroScreen struct {
	form      *huh.Form
	start     bool
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewIntroScreen creates the Introduction screen
func NewIntroScreen() *IntroScreen {
	s := &IntroScreen{start: true}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("start").
				Title("Ready to begin?").
				Affirmative("Next").
				Negative("Quit").
				Value(&s.start),
		),
	).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *IntroScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *IntroScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			s.cancelled = true
			return s, tea.Quit
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
		if s.start {
			s.done = true
		} else {
			s.cancelled = true
			return s, tea.Quit
		}
	}

	return s, cmd
}

// View implements tea.Model
func (s *IntroScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	var expect strings.Builder
	for _, e := range introExpectations {
		expect.WriteString("  • ")
		expect.WriteString(e)
		expect.WriteString("\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.Stepper(intake.StepIntroduction),
		"",
		components.TitleStyle.Render(IntroWelcome),
		"This guided consultation will help assess your symptoms and provide appropriate healthcare recommendations.",
		"",
		disclaimerStyle.Render(IntroDisclaimer),
		"",
		components.SubtitleStyle.Render("What to Expect:"),
		expect.String(),
		s.form.View(),
		"",
		components.HintStyle.Render("Enter: Continue | Esc: Quit"),
	)
}

// Done returns true once the user chose to start
func (s *IntroScreen) Done() bool { return s.done }

// Cancelled returns true if the user quit
func (s *IntroScreen) Cancelled() bool { return s.cancelled }
