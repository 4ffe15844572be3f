package intake

import (
	"fmt"
	"slices"
	"strings"
)

// Question is a single-choice follow-up question.
type Question struct {
	Key     string
	Prompt  string
	Options []string
}

// Label returns the key capitalized, as used in synthesized answers.
func (q Question) Label() string {
	if q.Key == "" {
		return ""
	}
	return strings.ToUpper(q.Key[:1]) + q.Key[1:]
}

// followUps is the static symptom to follow-up table. It is checked by
// mustFollowUps when the package loads.
var followUps = mustFollowUps(map[Symptom][]Question{
	AbdominalPain: {
		{
			Key:     "location",
			Prompt:  "Where is the pain located?",
			Options: []string{"upper-right", "upper-left", "lower-right", "lower-left", "center"},
		},
		{
			Key:     "description",
			Prompt:  "How would you describe the pain?",
			Options: []string{"cramping", "sharp", "dull", "burning"},
		},
	},
	SevereHeadache: {
		{
			Key:     "location",
			Prompt:  "Where is the headache located?",
			Options: []string{"forehead", "temples", "back of head", "one side", "whole head"},
		},
		{
			Key:     "description",
			Prompt:  "How would you describe the headache?",
			Options: []string{"throbbing", "pressing", "stabbing", "dull"},
		},
	},
	ChestPain: {
		{
			Key:     "location",
			Prompt:  "Where is the chest pain located?",
			Options: []string{"center", "left side", "right side", "spreading to arm or jaw"},
		},
		{
			Key:     "description",
			Prompt:  "How would you describe the chest pain?",
			Options: []string{"pressure", "tightness", "sharp", "burning"},
		},
	},
})

func mustFollowUps(table map[Symptom][]Question) map[Symptom][]Question {
	if err := checkFollowUps(table); err != nil {
		panic(err)
	}
	return table
}

func checkFollowUps(table map[Symptom][]Question) error {
	for s, questions := range table {
		if !s.Valid() {
			return fmt.Errorf("follow-up table: unknown symptom %d", int(s))
		}
		if len(questions) == 0 {
			return fmt.Errorf("follow-up table: %s has no questions", s)
		}
		seen := make(map[string]bool, len(questions))
		for _, q := range questions {
			if q.Key == "" {
				return fmt.Errorf("follow-up table: %s has a question without key", s)
			}
			if seen[q.Key] {
				return fmt.Errorf("follow-up table: %s repeats question %q", s, q.Key)
			}
			seen[q.Key] = true
			if len(q.Options) == 0 {
				return fmt.Errorf("follow-up table: %s/%s has no options", s, q.Key)
			}
		}
	}
	return nil
}

// Questions returns the follow-up questions registered for s, or nil.
func Questions(s Symptom) []Question {
	return slices.Clone(followUps[s])
}

// HasFollowUp reports whether s has registered follow-up questions.
func HasFollowUp(s Symptom) bool {
	_, ok := followUps[s]
	return ok
}

// Applicable returns the selected symptoms that have follow-up questions, in
// selection order. Unmapped symptoms are skipped.
func Applicable(r SymptomReport) []Symptom {
	var out []Symptom
	for _, s := range r.Symptoms {
		if HasFollowUp(s) {
			out = append(out, s)
		}
	}
	return out
}

// FollowUpEntry is one synthesized follow-up answer as sent to the service.
type FollowUpEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// FollowUpAnswers holds the chosen option per question key, per symptom.
type FollowUpAnswers map[Symptom]map[string]string

// Set records an answer. Only registered symptoms, keys and options are
// accepted.
func (a FollowUpAnswers) Set(s Symptom, key, option string) error {
	questions, ok := followUps[s]
	if !ok {
		return fmt.Errorf("%s has no follow-up questions", s)
	}
	i := slices.IndexFunc(questions, func(q Question) bool { return q.Key == key })
	if i < 0 {
		return fmt.Errorf("%s has no follow-up question %q", s, key)
	}
	if !slices.Contains(questions[i].Options, option) {
		return fmt.Errorf("invalid answer %q for %s/%s", option, s, key)
	}
	if a[s] == nil {
		a[s] = make(map[string]string, len(questions))
	}
	a[s][key] = option
	return nil
}

// Get returns the recorded answer, or "".
func (a FollowUpAnswers) Get(s Symptom, key string) string {
	return a[s][key]
}

// Clone returns a deep copy of a.
func (a FollowUpAnswers) Clone() FollowUpAnswers {
	if a == nil {
		return nil
	}
	out := make(FollowUpAnswers, len(a))
	for s, answers := range a {
		m := make(map[string]string, len(answers))
		for k, v := range answers {
			m[k] = v
		}
		out[s] = m
	}
	return out
}

// Restrict drops answers for symptoms not in r.
func (a FollowUpAnswers) Restrict(r SymptomReport) FollowUpAnswers {
	out := FollowUpAnswers{}
	for s, answers := range a.Clone() {
		if r.Has(s) {
			out[s] = answers
		}
	}
	return out
}

// Entries synthesizes one entry per answered symptom, in catalog order. Each
// answer joins "Key: value" pairs in question order. Symptoms without
// answers produce no entry.
func (a FollowUpAnswers) Entries() []FollowUpEntry {
	var out []FollowUpEntry
	for _, s := range Catalog() {
		answers := a[s]
		if len(answers) == 0 {
			continue
		}
		var parts []string
		for _, q := range followUps[s] {
			if v := answers[q.Key]; v != "" {
				parts = append(parts, q.Label()+": "+v)
			}
		}
		if len(parts) == 0 {
			continue
		}
		out = append(out, FollowUpEntry{
			Question: s.String(),
			Answer:   strings.Join(parts, ", "),
		})
	}
	return out
}
