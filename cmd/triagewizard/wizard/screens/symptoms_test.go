package screens

import (
	"slices"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrsinham/triagewizard/internal/intake"
)

func TestSymptomsScreen_ToggleShowsAdvisory(t *testing.T) {
	s := NewSymptomsScreen(intake.SymptomReport{})
	s.Init()

	// The cursor starts on Chest Pain, an urgent symptom.
	send(s, typed("x"))
	if got := s.Report().Symptoms; !slices.Equal(got, []intake.Symptom{intake.ChestPain}) {
		t.Fatalf("Expected Chest Pain selected, got %v", got)
	}
	if s.Advisory() == "" {
		t.Error("Expected the urgent care advisory")
	}

	send(s, typed("x"))
	if n := len(s.Report().Symptoms); n != 0 {
		t.Errorf("Expected nothing selected, got %d", n)
	}
	if s.Advisory() != "" {
		t.Errorf("Expected no advisory, got %q", s.Advisory())
	}
}

func TestSymptomsScreen_EmptySelectionBlocks(t *testing.T) {
	s := NewSymptomsScreen(intake.SymptomReport{})
	s.Init()

	send(s, key(tea.KeyEnter))
	if s.Done() {
		t.Error("Expected an empty selection to block the step")
	}
}

func TestSymptomsScreen_NonUrgentSelection(t *testing.T) {
	s := NewSymptomsScreen(intake.SymptomReport{})
	s.Init()

	idx := slices.Index(intake.Catalog(), intake.Cough)
	for range idx {
		send(s, key(tea.KeyDown))
	}
	send(s, typed("x"), key(tea.KeyEsc))

	if !s.Back() {
		t.Fatal("Expected Esc to ask for the previous step")
	}
	if got := s.Report().Symptoms; !slices.Equal(got, []intake.Symptom{intake.Cough}) {
		t.Errorf("Expected Cough selected, got %v", got)
	}
	if s.Advisory() != "" {
		t.Errorf("Expected no advisory for Cough, got %q", s.Advisory())
	}
}
