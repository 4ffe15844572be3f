package help

import "strings"

// HelpText contains information about a field
type HelpText struct {
	Title       string
	Description string
	Details     string
}

// Texts contains help information for the wizard fields, keyed by form key
var Texts = map[string]HelpText{
	"fullName": {
		Title:       "FULL NAME",
		Description: "The patient's full name.",
		Details:     "Required. Enter first and last name as they appear on an ID.",
	},
	"age": {
		Title:       "AGE",
		Description: "Age in whole years.",
		Details:     "Required. Must be a positive number.",
	},
	"gender": {
		Title:       "GENDER",
		Description: "The patient's gender.",
		Details:     "Required. Male, Female or Other.",
	},
	"phone": {
		Title:       "PHONE NUMBER",
		Description: "A number where the patient can be reached.",
		Details:     "Required. Any format is accepted.",
	},
	"medicalHistory": {
		Title:       "MEDICAL HISTORY",
		Description: "Known long-term conditions.",
		Details: `Optional. Select all that apply:
Diabetes, High Blood Pressure, Heart Disease, Asthma, Known Allergies`,
	},
	"currentMedications": {
		Title:       "CURRENT MEDICATIONS",
		Description: "Medicines taken regularly.",
		Details:     "Optional. List names and doses if known.",
	},
	"symptoms": {
		Title:       "SYMPTOMS",
		Description: "Everything the patient is experiencing right now.",
		Details: `Select at least one. Space toggles, Enter confirms.
Chest Pain, Fever/High Temperature, Severe Headache and
Difficulty Breathing require urgent attention.`,
	},
	"duration": {
		Title:       "DURATION",
		Description: "How long the symptoms have lasted.",
		Details:     "1-2 days, 3-5 days or more than a week.",
	},
	"severity": {
		Title:       "SEVERITY",
		Description: "Pain or discomfort on a scale of 0 to 10.",
		Details:     "0 means none, 10 means the worst imaginable.",
	},
	"additionalDetails": {
		Title:       "ADDITIONAL DETAILS",
		Description: "Anything else the clinician should know.",
		Details:     "Optional. Triggers, what makes it better or worse.",
	},
	"location": {
		Title:       "LOCATION",
		Description: "Where the symptom is felt.",
		Details:     "Optional. Pick the closest match.",
	},
	"description": {
		Title:       "DESCRIPTION",
		Description: "What the symptom feels like.",
		Details:     "Optional. Pick the closest match.",
	},
}

// Lookup returns the help for a form key. Follow-up keys are prefixed with
// the symptom, "Chest Pain/location", and resolve to the question key.
func Lookup(key string) (HelpText, bool) {
	if text, ok := Texts[key]; ok {
		return text, true
	}
	if i := strings.LastIndex(key, "/"); i >= 0 {
		text, ok := Texts[key[i+1:]]
		return text, ok
	}
	return HelpText{}, false
}
