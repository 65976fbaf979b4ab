package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"familyhub/internal/calendar"
	"familyhub/internal/models"
)

// FamilyLister enumerates all families for the digest run
type FamilyLister interface {
	ListAll() ([]models.Family, error)
}

// EventSource yields the upcoming calendar events for a family
type EventSource interface {
	Events(ctx context.Context, familyID string) ([]calendar.Event, error)
}

// DigestSender delivers a composed digest email
type DigestSender interface {
	IsEnabled() bool
	Send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error
}

// DigestService composes and sends the morning digest email: today's
// calendar events plus the family's open reminders.
type DigestService struct {
	families  FamilyLister
	reminders ReminderStore
	events    EventSource
	sender    DigestSender
	toEmail   string
	hour      int
	now       func() time.Time
}

// NewDigestService creates a new digest service
func NewDigestService(families FamilyLister, reminders ReminderStore, events EventSource, sender DigestSender, toEmail string, hour int) *DigestService {
	return &DigestService{
		families:  families,
		reminders: reminders,
		events:    events,
		sender:    sender,
		toEmail:   toEmail,
		hour:      hour,
		now:       time.Now,
	}
}

// Enabled reports whether digests will actually be sent
func (s *DigestService) Enabled() bool {
	return s.sender.IsEnabled() && s.toEmail != ""
}

// Run sends the digest on schedule until the context is cancelled. Each
// delivery fires at the configured local hour.
func (s *DigestService) Run(ctx context.Context) {
	if !s.Enabled() {
		log.Println("Morning digest disabled: email sender or DIGEST_TO_EMAIL not configured")
		return
	}
	log.Printf("Morning digest scheduled daily at %02d:00", s.hour)

	for {
		timer := time.NewTimer(s.untilNextRun())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := s.SendAll(ctx); err != nil {
				log.Printf("Morning digest run failed: %v", err)
			}
		}
	}
}

func (s *DigestService) untilNextRun() time.Duration {
	now := s.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// SendAll composes and sends one digest per family. A failure for one family
// is logged and does not block the others.
func (s *DigestService) SendAll(ctx context.Context) error {
	families, err := s.families.ListAll()
	if err != nil {
		return err
	}
	for _, family := range families {
		if err := s.sendFor(ctx, &family); err != nil {
			log.Printf("Failed to send digest for family %s: %v", family.ID, err)
		}
	}
	return nil
}

func (s *DigestService) sendFor(ctx context.Context, family *models.Family) error {
	events, err := s.events.Events(ctx, family.ID)
	if err != nil {
		log.Printf("Digest for family %s: calendar unavailable: %v", family.ID, err)
		events = nil
	}
	reminders, err := s.reminders.ListOpen(family.ID)
	if err != nil {
		return err
	}

	today := s.now()
	var todays []calendar.Event
	for _, event := range events {
		if sameDay(event.Start, today) {
			todays = append(todays, event)
		}
	}

	subject := fmt.Sprintf("%s: your day on %s", family.Name, today.Format("Monday, January 2"))
	return s.sender.Send(ctx, s.toEmail, subject, digestHTML(family.Name, todays, reminders), digestText(family.Name, todays, reminders))
}

func sameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.Local().Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func digestText(familyName string, events []calendar.Event, reminders []models.Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Good morning, %s!\n\nToday's schedule:\n", familyName)
	if len(events) == 0 {
		b.WriteString("- nothing on the calendar\n")
	}
	for _, event := range events {
		b.WriteString("- " + eventLine(event) + "\n")
	}
	b.WriteString("\nOpen reminders:\n")
	if len(reminders) == 0 {
		b.WriteString("- all clear\n")
	}
	for _, reminder := range reminders {
		b.WriteString("- " + reminderDigestLine(reminder) + "\n")
	}
	return b.String()
}

func digestHTML(familyName string, events []calendar.Event, reminders []models.Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Good morning, %s!</h2>", html.EscapeString(familyName))
	b.WriteString("<h3>Today's schedule</h3><ul>")
	if len(events) == 0 {
		b.WriteString("<li>nothing on the calendar</li>")
	}
	for _, event := range events {
		b.WriteString("<li>" + html.EscapeString(eventLine(event)) + "</li>")
	}
	b.WriteString("</ul><h3>Open reminders</h3><ul>")
	if len(reminders) == 0 {
		b.WriteString("<li>all clear</li>")
	}
	for _, reminder := range reminders {
		b.WriteString("<li>" + html.EscapeString(reminderDigestLine(reminder)) + "</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

func eventLine(event calendar.Event) string {
	when := "all day"
	if !event.AllDay {
		when = event.Start.Local().Format("15:04")
	}
	line := fmt.Sprintf("%s (%s)", event.Title, when)
	if event.AssignedMember != "" {
		line += " - " + event.AssignedMember
	}
	return line
}

func reminderDigestLine(reminder models.Reminder) string {
	line := reminder.Title
	if reminder.DueAt != nil {
		line += " (due " + reminder.DueAt.Local().Format("Jan 2 15:04") + ")"
	}
	if reminder.AssignedTo != nil && *reminder.AssignedTo != "" {
		line += " - " + *reminder.AssignedTo
	}
	return line
}
