package intake

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Gender is the patient's declared gender.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Genders returns the selectable genders in display order.
func Genders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// ParseGender parses a string into a Gender
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale, nil
	case "female":
		return GenderFemale, nil
	case "other":
		return GenderOther, nil
	default:
		return "", fmt.Errorf("invalid gender: %s (valid: male, female, other)", s)
	}
}

// Label returns the capitalized form used in forms.
func (g Gender) Label() string {
	if g == "" {
		return ""
	}
	return strings.ToUpper(string(g[:1])) + string(g[1:])
}

// MedicalConditions is the catalog offered for the medical history.
var MedicalConditions = []string{
	"Diabetes",
	"High Blood Pressure",
	"Heart Disease",
	"Asthma",
	"Known Allergies",
}

// Patient is the person the consultation is for. ID is assigned by the
// consultation service and is empty before creation.
type Patient struct {
	ID                 string   `json:"_id,omitempty" yaml:"-"`
	FullName           string   `json:"fullName" yaml:"full_name"`
	Age                int      `json:"age" yaml:"age"`
	Gender             Gender   `json:"gender" yaml:"gender"`
	Phone              string   `json:"phone" yaml:"phone"`
	MedicalHistory     []string `json:"medicalHistory,omitempty" yaml:"medical_history,omitempty"`
	CurrentMedications string   `json:"currentMedications" yaml:"current_medications,omitempty"`
}

// Clone returns a deep copy of p.
func (p Patient) Clone() Patient {
	p.MedicalHistory = slices.Clone(p.MedicalHistory)
	return p
}

// Equal reports whether p and o hold the same values.
func (p Patient) Equal(o Patient) bool {
	return p.ID == o.ID &&
		p.FullName == o.FullName &&
		p.Age == o.Age &&
		p.Gender == o.Gender &&
		p.Phone == o.Phone &&
		slices.Equal(p.MedicalHistory, o.MedicalHistory) &&
		p.CurrentMedications == o.CurrentMedications
}

// Form field keys, matching the JSON names.
const (
	FieldFullName           = "fullName"
	FieldAge                = "age"
	FieldGender             = "gender"
	FieldPhone              = "phone"
	FieldMedicalHistory     = "medicalHistory"
	FieldCurrentMedications = "currentMedications"
)

var requiredMessages = map[string]string{
	FieldFullName: "Full name is required",
	FieldAge:      "Age is required",
	FieldGender:   "Gender is required",
	FieldPhone:    "Phone number is required",
}

// RequiredFields lists the fields that must be present, in form order.
func RequiredFields() []string {
	return []string{FieldFullName, FieldAge, FieldGender, FieldPhone}
}

// FieldErrors maps a field key to its error message.
type FieldErrors map[string]string

// OK reports whether no field carries a message.
func (fe FieldErrors) OK() bool {
	for _, msg := range fe {
		if msg != "" {
			return false
		}
	}
	return true
}

// Fields returns the flagged fields in form order.
func (fe FieldErrors) Fields() []string {
	var out []string
	for _, f := range RequiredFields() {
		if fe[f] != "" {
			out = append(out, f)
		}
	}
	return out
}

// ValidatePatient checks that every required field is present.
func ValidatePatient(p Patient) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(p.FullName) == "" {
		errs[FieldFullName] = requiredMessages[FieldFullName]
	}
	if p.Age <= 0 {
		errs[FieldAge] = requiredMessages[FieldAge]
	}
	if p.Gender == "" {
		errs[FieldGender] = requiredMessages[FieldGender]
	}
	if strings.TrimSpace(p.Phone) == "" {
		errs[FieldPhone] = requiredMessages[FieldPhone]
	}
	return errs
}

// ValidateField is the single-field form of ValidatePatient, used by inputs
// that validate as the user types. Optional fields always pass.
func ValidateField(field, value string) error {
	msg, required := requiredMessages[field]
	if !required {
		return nil
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New(msg)
	}
	if field == FieldAge {
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return errors.New(msg)
		}
	}
	return nil
}

// PatientForm is the editable draft behind the Patient Info step.
type PatientForm struct {
	Draft  Patient
	Errors FieldErrors
}

// NewPatientForm starts a form from an existing patient.
func NewPatientForm(p Patient) *PatientForm {
	return &PatientForm{Draft: p.Clone(), Errors: FieldErrors{}}
}

// Set updates one text field and clears its stored error, if any. The rest
// of the form is not re-validated.
func (f *PatientForm) Set(field, value string) error {
	switch field {
	case FieldFullName:
		f.Draft.FullName = value
	case FieldAge:
		age, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || value == "" {
			age = 0
		}
		f.Draft.Age = age
	case FieldGender:
		if value == "" {
			f.Draft.Gender = ""
			break
		}
		g, err := ParseGender(value)
		if err != nil {
			return err
		}
		f.Draft.Gender = g
	case FieldPhone:
		f.Draft.Phone = value
	case FieldCurrentMedications:
		f.Draft.CurrentMedications = value
	default:
		return fmt.Errorf("unknown patient field: %s", field)
	}
	if f.Errors[field] != "" {
		delete(f.Errors, field)
	}
	return nil
}

// ToggleCondition adds or removes a medical history entry.
func (f *PatientForm) ToggleCondition(condition string) {
	if i := slices.Index(f.Draft.MedicalHistory, condition); i >= 0 {
		f.Draft.MedicalHistory = slices.Delete(f.Draft.MedicalHistory, i, i+1)
		return
	}
	f.Draft.MedicalHistory = append(f.Draft.MedicalHistory, condition)
}

// Submit validates the whole draft and stores the resulting errors.
func (f *PatientForm) Submit() bool {
	f.Errors = ValidatePatient(f.Draft)
	return f.Errors.OK()
}
