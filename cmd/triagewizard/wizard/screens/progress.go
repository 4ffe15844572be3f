package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/components"
	"github.com/mrsinham/triagewizard/internal/intake"
)

var (
	progressLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")).
				Bold(true)

	progressElapsedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)

// ProgressScreen shows a spinner while a service call is in flight
type ProgressScreen struct {
	step      intake.Step
	label     string
	spinner   spinner.Model
	startTime time.Time
	cancelled bool
	width     int
	height    int
}

// NewProgressScreen creates a progress screen for step with label
func NewProgressScreen(step intake.Step, label string) *ProgressScreen {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = progressLabelStyle
	return &ProgressScreen{
		step:      step,
		label:     label,
		spinner:   sp,
		startTime: time.Now(),
	}
}

// Init implements tea.Model
func (s *ProgressScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update implements tea.Model
func (s *ProgressScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			s.cancelled = true
			return s, tea.Quit
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	return s, nil
}

// View implements tea.Model
func (s *ProgressScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	var sb strings.Builder
	sb.WriteString(components.Stepper(s.step))
	sb.WriteString("\n\n")
	sb.WriteString(s.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(progressLabelStyle.Render(s.label))
	sb.WriteString("\n\n")
	sb.WriteString(progressElapsedStyle.Render(fmt.Sprintf("Elapsed: %.1fs", time.Since(s.startTime).Seconds())))
	sb.WriteString("\n\n")
	sb.WriteString(components.HintStyle.Render("Press Ctrl+C to quit"))

	return sb.String()
}

// Label returns the text shown next to the spinner
func (s *ProgressScreen) Label() string { return s.label }

// Cancelled returns true if the user cancelled
func (s *ProgressScreen) Cancelled() bool { return s.cancelled }
