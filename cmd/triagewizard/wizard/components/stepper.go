package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/triagewizard/internal/intake"
)

var (
	stepDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	stepCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("63")).
				Bold(true).
				Padding(0, 1)

	stepTodoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Stepper renders the progress line shown above every step.
func Stepper(current intake.Step) string {
	steps := intake.Steps()
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		label := fmt.Sprintf("%d. %s", int(s), s.Title())
		switch {
		case s < current:
			parts = append(parts, stepDoneStyle.Render("✓ "+label))
		case s == current:
			parts = append(parts, stepCurrentStyle.Render(label))
		default:
			parts = append(parts, stepTodoStyle.Render(label))
		}
	}
	return strings.Join(parts, stepTodoStyle.Render(" › "))
}
