package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"familyhub/internal/calendar"
	"familyhub/internal/models"
)

type fakeFamilyLister struct{ families []models.Family }

func (f *fakeFamilyLister) ListAll() ([]models.Family, error) { return f.families, nil }

type fakeEventSource struct{ events []calendar.Event }

func (f *fakeEventSource) Events(ctx context.Context, familyID string) ([]calendar.Event, error) {
	return f.events, nil
}

type capturedEmail struct {
	to, subject, html, text string
}

type fakeSender struct {
	enabled bool
	sent    []capturedEmail
}

func (f *fakeSender) IsEnabled() bool { return f.enabled }

func (f *fakeSender) Send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	f.sent = append(f.sent, capturedEmail{toEmail, subject, htmlBody, textBody})
	return nil
}

func TestDigestSendsTodaysScheduleAndReminders(t *testing.T) {
	now := time.Date(2025, 3, 1, 7, 0, 0, 0, time.Local)
	families := &fakeFamilyLister{families: []models.Family{{ID: "fam-1", Name: "The Smiths"}}}
	events := &fakeEventSource{events: []calendar.Event{
		{Title: "Swimming", Start: time.Date(2025, 3, 1, 16, 0, 0, 0, time.Local), AssignedMember: "Sam"},
		{Title: "Dentist", Start: time.Date(2025, 3, 2, 10, 0, 0, 0, time.Local)},
	}}
	reminders := &fakeReminderStore{open: []models.Reminder{{Title: "Buy milk"}}}
	sender := &fakeSender{enabled: true}

	svc := NewDigestService(families, reminders, events, sender, "parents@example.com", 7)
	svc.now = func() time.Time { return now }

	if err := svc.SendAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	email := sender.sent[0]
	if email.to != "parents@example.com" {
		t.Errorf("unexpected recipient %q", email.to)
	}
	if !strings.Contains(email.subject, "The Smiths") {
		t.Errorf("expected family name in subject, got %q", email.subject)
	}
	if !strings.Contains(email.text, "Swimming (16:00) - Sam") {
		t.Errorf("expected today's event in body:\n%s", email.text)
	}
	if strings.Contains(email.text, "Dentist") {
		t.Error("tomorrow's event must not be in today's digest")
	}
	if !strings.Contains(email.text, "Buy milk") {
		t.Error("expected the open reminder in the body")
	}
	if !strings.Contains(email.html, "Swimming") {
		t.Error("expected the HTML body to carry the schedule too")
	}
}

func TestDigestDisabledWithoutRecipient(t *testing.T) {
	svc := NewDigestService(&fakeFamilyLister{}, &fakeReminderStore{}, &fakeEventSource{}, &fakeSender{enabled: true}, "", 7)
	if svc.Enabled() {
		t.Error("digest must be disabled without a recipient")
	}

	svc = NewDigestService(&fakeFamilyLister{}, &fakeReminderStore{}, &fakeEventSource{}, &fakeSender{enabled: false}, "a@b.c", 7)
	if svc.Enabled() {
		t.Error("digest must be disabled when the sender is disabled")
	}
}

func TestUntilNextRun(t *testing.T) {
	svc := NewDigestService(&fakeFamilyLister{}, &fakeReminderStore{}, &fakeEventSource{}, &fakeSender{enabled: true}, "a@b.c", 7)

	svc.now = func() time.Time { return time.Date(2025, 3, 1, 6, 0, 0, 0, time.Local) }
	if got := svc.untilNextRun(); got != time.Hour {
		t.Errorf("expected 1h before today's run, got %v", got)
	}

	svc.now = func() time.Time { return time.Date(2025, 3, 1, 8, 0, 0, 0, time.Local) }
	if got := svc.untilNextRun(); got != 23*time.Hour {
		t.Errorf("expected 23h after today's run, got %v", got)
	}
}
