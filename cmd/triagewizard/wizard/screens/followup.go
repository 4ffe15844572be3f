package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/components"
	"github.com/mrsinham/triagewizard/internal/intake"
)

// NoFollowUpsNote is shown when no selected symptom has follow-up questions.
const NoFollowUpsNote = "No additional questions for the selected symptoms."

// FollowUpScreen asks the symptom-specific questions and triggers submission
type FollowUpScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	symptoms  []intake.Symptom
	values    map[intake.Symptom]map[string]*string
	banner    string
	submit    bool

	done      bool
	back      bool
	cancelled bool
	width     int
	height    int
}

// NewFollowUpScreen creates the Follow-up screen for the mapped symptoms of
// report, prefilled with answers
func NewFollowUpScreen(report intake.SymptomReport, answers intake.FollowUpAnswers) *FollowUpScreen {
	s := &FollowUpScreen{
		helpPanel: components.NewHelpPanel(),
		symptoms:  intake.Applicable(report),
		values:    make(map[intake.Symptom]map[string]*string),
		submit:    true,
	}

	var groups []*huh.Group
	for _, sym := range s.symptoms {
		s.values[sym] = make(map[string]*string)
		fields := []huh.Field{
			huh.NewNote().Title(sym.String()),
		}
		for _, q := range intake.Questions(sym) {
			v := answers.Get(sym, q.Key)
			s.values[sym][q.Key] = &v

			opts := []huh.Option[string]{huh.NewOption("Skip", "")}
			for _, o := range q.Options {
				opts = append(opts, huh.NewOption(o, o))
			}
			fields = append(fields, huh.NewSelect[string]().
				Key(sym.String()+"/"+q.Key).
				Title(q.Prompt).
				Options(opts...).
				Value(&v))
		}
		groups = append(groups, huh.NewGroup(fields...))
	}

	submit := huh.NewConfirm().
		Key("submit").
		Title("Submit your consultation?").
		Affirmative("Submit").
		Negative("Back").
		Value(&s.submit)
	if len(groups) == 0 {
		groups = append(groups, huh.NewGroup(
			huh.NewNote().Title("Follow-up").Description(NoFollowUpsNote),
			submit,
		))
	} else {
		groups = append(groups, huh.NewGroup(submit))
	}

	s.form = huh.NewForm(groups...).WithShowHelp(false)

	return s
}

// Init implements tea.Model
func (s *FollowUpScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *FollowUpScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, tea.Quit
		case "esc":
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

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		if s.submit {
			s.done = true
		} else {
			s.back = true
		}
	}

	return s, cmd
}

// View implements tea.Model
func (s *FollowUpScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	parts := []string{
		components.Stepper(intake.StepFollowUp),
		"",
		components.TitleStyle.Render("Follow-up Questions"),
	}
	if s.banner != "" {
		parts = append(parts, components.ErrorStyle.Render(s.banner), "")
	}
	parts = append(parts, s.form.View())
	if len(s.symptoms) > 0 {
		parts = append(parts, "", s.helpPanel.View())
	}
	parts = append(parts,
		"",
		components.HintStyle.Render("Enter: Continue and submit | Esc: Back | Ctrl+C: Quit"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetBanner shows msg above the questions
func (s *FollowUpScreen) SetBanner(msg string) { s.banner = msg }

// Banner returns the message shown above the questions
func (s *FollowUpScreen) Banner() string { return s.banner }

// Symptoms returns the symptoms questions are asked for
func (s *FollowUpScreen) Symptoms() []intake.Symptom { return s.symptoms }

// Set records an answer as selecting it in the form does
func (s *FollowUpScreen) Set(sym intake.Symptom, key, option string) {
	if v, ok := s.values[sym][key]; ok {
		*v = option
	}
}

// Answers returns the selected options
func (s *FollowUpScreen) Answers() intake.FollowUpAnswers {
	out := intake.FollowUpAnswers{}
	for sym, questions := range s.values {
		for key, v := range questions {
			if *v != "" {
				_ = out.Set(sym, key, *v)
			}
		}
	}
	return out
}

// Done returns true once the user confirmed the answers
func (s *FollowUpScreen) Done() bool { return s.done }

// Back returns true if the user asked for the previous step
func (s *FollowUpScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *FollowUpScreen) Cancelled() bool { return s.cancelled }
