package screens

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/triagewizard/cmd/triagewizard/wizard/components"
	"github.com/mrsinham/triagewizard/internal/intake"
)

// PatientScreen collects the patient's details
type PatientScreen struct {
	form      *huh.Form
	helpPanel *components.HelpPanel
	draft     *intake.PatientForm

	// Bound to the huh fields.
	fullName    string
	age         string
	gender      string
	phone       string
	history     []string
	medications string

	done      bool
	back      bool
	cancelled bool
	width     int
	height    int
}

// NewPatientScreen creates the Patient Info screen prefilled with p
func NewPatientScreen(p intake.Patient) *PatientScreen {
	s := &PatientScreen{
		helpPanel:   components.NewHelpPanel(),
		draft:       intake.NewPatientForm(p),
		fullName:    p.FullName,
		gender:      string(p.Gender),
		phone:       p.Phone,
		history:     append([]string(nil), p.MedicalHistory...),
		medications: p.CurrentMedications,
	}
	if p.Age > 0 {
		s.age = strconv.Itoa(p.Age)
	}

	genders := make([]huh.Option[string], 0, len(intake.Genders())+1)
	genders = append(genders, huh.NewOption("Select gender", ""))
	for _, g := range intake.Genders() {
		genders = append(genders, huh.NewOption(g.Label(), string(g)))
	}

	conditions := make([]huh.Option[string], 0, len(intake.MedicalConditions))
	for _, c := range intake.MedicalConditions {
		conditions = append(conditions, huh.NewOption(c, c))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key(intake.FieldFullName).
				Title("Full Name").
				Placeholder("Jane Doe").
				Value(&s.fullName).
				Validate(s.validator(intake.FieldFullName)),

			huh.NewInput().
				Key(intake.FieldAge).
				Title("Age").
				Value(&s.age).
				Validate(s.validator(intake.FieldAge)),

			huh.NewSelect[string]().
				Key(intake.FieldGender).
				Title("Gender").
				Options(genders...).
				Value(&s.gender).
				Validate(s.validator(intake.FieldGender)),

			huh.NewInput().
				Key(intake.FieldPhone).
				Title("Phone Number").
				Value(&s.phone).
				Validate(s.validator(intake.FieldPhone)),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key(intake.FieldMedicalHistory).
				Title("Medical History").
				Options(conditions...).
				Value(&s.history),

			huh.NewText().
				Key(intake.FieldCurrentMedications).
				Title("Current Medications").
				CharLimit(500).
				Value(&s.medications),
		),
	).WithShowHelp(false).WithShowErrors(true)

	return s
}

// validator runs the presence check for field and records the outcome on
// the draft so Errors reflects what the form shows.
func (s *PatientScreen) validator(field string) func(string) error {
	return func(v string) error {
		if err := s.draft.Set(field, v); err != nil {
			return err
		}
		if err := intake.ValidateField(field, v); err != nil {
			s.draft.Errors[field] = err.Error()
			return err
		}
		return nil
	}
}

// Init implements tea.Model
func (s *PatientScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements tea.Model
func (s *PatientScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}

	if s.form.State == huh.StateCompleted {
		s.sync()
		if s.draft.Submit() {
			s.done = true
		}
	}

	return s, cmd
}

// sync copies the bound field values into the draft.
func (s *PatientScreen) sync() {
	_ = s.draft.Set(intake.FieldFullName, s.fullName)
	_ = s.draft.Set(intake.FieldAge, s.age)
	_ = s.draft.Set(intake.FieldGender, s.gender)
	_ = s.draft.Set(intake.FieldPhone, s.phone)
	_ = s.draft.Set(intake.FieldCurrentMedications, s.medications)
	s.draft.Draft.MedicalHistory = append([]string(nil), s.history...)
}

// View implements tea.Model
func (s *PatientScreen) View() string {
	if s.cancelled {
		return "Cancelled.\n"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		components.Stepper(intake.StepPatientInfo),
		"",
		components.TitleStyle.Render("Patient Information"),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Tab: Next field | Enter: Continue | Esc: Back | Ctrl+C: Quit"),
	)
}

// Done returns true if the form was completed with valid data
func (s *PatientScreen) Done() bool { return s.done }

// Back returns true if the user asked for the previous step
func (s *PatientScreen) Back() bool { return s.back }

// Cancelled returns true if the user cancelled
func (s *PatientScreen) Cancelled() bool { return s.cancelled }

// Patient returns the entered patient
func (s *PatientScreen) Patient() intake.Patient { return s.draft.Draft.Clone() }

// Errors returns the field errors currently recorded
func (s *PatientScreen) Errors() intake.FieldErrors { return s.draft.Errors }
