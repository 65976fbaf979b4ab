package assistant

import (
	"strings"
	"testing"
	"time"

	"familyhub/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestBuildSystemPromptEmptySections(t *testing.T) {
	prompt := BuildSystemPrompt("The Smiths", nil, nil, nil)

	if !strings.Contains(prompt, "You are Marvin") {
		t.Error("expected the Marvin persona in the prompt")
	}
	if !strings.Contains(prompt, "Family: The Smiths") {
		t.Error("expected the family name in the prompt")
	}
	if !strings.Contains(prompt, "Family Members:\n(none yet)") {
		t.Error("expected placeholder for empty members")
	}
	if !strings.Contains(prompt, "Family Notes:\n(none yet)") {
		t.Error("expected placeholder for empty notes")
	}
	if !strings.Contains(prompt, "Active Reminders:\n(none)") {
		t.Error("expected placeholder for empty reminders")
	}
	if !strings.Contains(prompt, "[REMINDER: title | YYYY-MM-DD HH:MM | person_name]") {
		t.Error("expected the reminder directive format in the guidelines")
	}
}

func TestBuildSystemPromptRendersSections(t *testing.T) {
	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	members := []models.Member{
		{Name: "Alex", Role: "parent", Work: strPtr("Acme Corp"), Notes: strPtr("Travels on Mondays")},
		{Name: "Sam", Role: "child", Age: intPtr(9), School: strPtr("Oakwood Primary")},
	}
	notes := []models.ContextNote{
		{Key: "dietary", Content: "no nuts"},
	}
	reminders := []models.Reminder{
		{Title: "Buy milk", DueAt: &due, AssignedTo: strPtr("Alex")},
		{Title: "Book dentist"},
	}

	prompt := BuildSystemPrompt("The Smiths", members, notes, reminders)

	if !strings.Contains(prompt, "- Alex (parent). Acme Corp. Travels on Mondays.") {
		t.Errorf("unexpected parent line in:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Sam (child), age 9. Oakwood Primary.") {
		t.Errorf("unexpected child line in:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- dietary: no nuts") {
		t.Error("expected the context note")
	}
	if !strings.Contains(prompt, "- Buy milk (due: 2025-03-01 09:00, for: Alex)") {
		t.Error("expected the dated reminder line")
	}
	if !strings.Contains(prompt, "- Book dentist (due: no date, for: anyone)") {
		t.Error("expected the undated reminder line")
	}
}

func TestBuildSystemPromptIsDeterministic(t *testing.T) {
	members := []models.Member{
		{Name: "Alex", Role: "parent"},
		{Name: "Sam", Role: "child", Age: intPtr(9)},
	}
	reminders := []models.Reminder{{Title: "Buy milk"}}

	first := BuildSystemPrompt("The Smiths", members, nil, reminders)
	second := BuildSystemPrompt("The Smiths", members, nil, reminders)

	if first != second {
		t.Error("identical inputs should produce byte-identical prompts")
	}
}
