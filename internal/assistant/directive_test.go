package assistant

import (
	"testing"
	"time"
)

func TestExtractDirectivesSingleReminder(t *testing.T) {
	directives := ExtractDirectives("Sure! [REMINDER: Buy milk | 2025-03-01 09:00 | Alex]")

	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	d := directives[0]
	if d.Title != "Buy milk" {
		t.Errorf("expected title 'Buy milk', got %q", d.Title)
	}
	if d.DueAt == nil {
		t.Fatal("expected a due date")
	}
	want := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	if !d.DueAt.Equal(want) {
		t.Errorf("expected due %v, got %v", want, *d.DueAt)
	}
	if d.AssignedTo == nil || *d.AssignedTo != "Alex" {
		t.Errorf("expected assignee 'Alex', got %v", d.AssignedTo)
	}
}

func TestExtractDirectivesNoneFields(t *testing.T) {
	directives := ExtractDirectives("[REMINDER: Water the plants | none | none]")

	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	d := directives[0]
	if d.Title != "Water the plants" {
		t.Errorf("unexpected title %q", d.Title)
	}
	if d.DueAt != nil {
		t.Errorf("expected no due date, got %v", *d.DueAt)
	}
	if d.AssignedTo != nil {
		t.Errorf("expected no assignee, got %q", *d.AssignedTo)
	}
}

func TestExtractDirectivesMultipleInOrder(t *testing.T) {
	reply := "Done.\n[REMINDER: First | none | none]\nAlso:\n[REMINDER: Second | none | Sam]"
	directives := ExtractDirectives(reply)

	if len(directives) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(directives))
	}
	if directives[0].Title != "First" || directives[1].Title != "Second" {
		t.Errorf("directives out of order: %q, %q", directives[0].Title, directives[1].Title)
	}
}

func TestExtractDirectivesUnparseableDueKeepsReminder(t *testing.T) {
	directives := ExtractDirectives("[REMINDER: Call the dentist | tomorrow-ish | Sam]")

	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	d := directives[0]
	if d.Title != "Call the dentist" {
		t.Errorf("unexpected title %q", d.Title)
	}
	if d.DueAt != nil {
		t.Errorf("expected garbled due to be dropped, got %v", *d.DueAt)
	}
	if d.AssignedTo == nil || *d.AssignedTo != "Sam" {
		t.Errorf("expected assignee 'Sam', got %v", d.AssignedTo)
	}
}

func TestExtractDirectivesPlainProse(t *testing.T) {
	cases := []string{
		"No reminders here, just chat.",
		"",
		"[REMINDER: missing fields]",
		"[REMINDER: two | fields]",
	}
	for _, text := range cases {
		if got := ExtractDirectives(text); got != nil {
			t.Errorf("expected nil for %q, got %v", text, got)
		}
	}
}

func TestExtractDirectivesTrimsWhitespace(t *testing.T) {
	directives := ExtractDirectives("[REMINDER:   Pack bags   |   none   |   Jo   ]")

	if len(directives) != 1 {
		t.Fatalf("expected 1 directive, got %d", len(directives))
	}
	if directives[0].Title != "Pack bags" {
		t.Errorf("expected trimmed title, got %q", directives[0].Title)
	}
	if directives[0].AssignedTo == nil || *directives[0].AssignedTo != "Jo" {
		t.Errorf("expected trimmed assignee, got %v", directives[0].AssignedTo)
	}
}
