package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"familyhub/internal/google"
	"familyhub/internal/models"
)

type fakeSession struct {
	events    map[string][]Event
	failing   map[string]bool
	listCalls int
}

func (s *fakeSession) ListCalendars(ctx context.Context) ([]RemoteCalendar, error) {
	return nil, nil
}

func (s *fakeSession) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]Event, error) {
	s.listCalls++
	if s.failing[calendarID] {
		return nil, errors.New("backend exploded")
	}
	return s.events[calendarID], nil
}

type fakeProvider struct {
	session   *fakeSession
	openErr   error
	openCalls int
}

func (p *fakeProvider) Open(ctx context.Context, familyID string) (Session, error) {
	p.openCalls++
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p.session, nil
}

type fakeSelections struct{ selections []models.CalendarSelection }

func (f *fakeSelections) ListEnabled(familyID string) ([]models.CalendarSelection, error) {
	return f.selections, nil
}

func memberPtr(s string) *string { return &s }

func aggregatorFixture() (*Aggregator, *fakeProvider, *fakeSelections) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	session := &fakeSession{
		events: map[string][]Event{
			"work": {
				{ID: "e2", Title: "Standup", Start: base.Add(2 * time.Hour)},
			},
			"home": {
				{ID: "e1", Title: "Swimming", Start: base.Add(1 * time.Hour)},
				{ID: "e3", Title: "Dinner", Start: base.Add(6 * time.Hour)},
			},
		},
		failing: map[string]bool{},
	}
	provider := &fakeProvider{session: session}
	selections := &fakeSelections{selections: []models.CalendarSelection{
		{CalendarID: "work", CalendarName: "Work", AssignedMember: memberPtr("Alex")},
		{CalendarID: "home", CalendarName: "Home"},
	}}
	agg := NewAggregator(provider, selections, 5*time.Minute)
	agg.now = func() time.Time { return base }
	return agg, provider, selections
}

func TestEventsMergesAndSorts(t *testing.T) {
	agg, _, _ := aggregatorFixture()

	events, err := agg.Events(context.Background(), "fam-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Title != "Swimming" || events[1].Title != "Standup" || events[2].Title != "Dinner" {
		t.Errorf("events not sorted by start: %s, %s, %s",
			events[0].Title, events[1].Title, events[2].Title)
	}
	for _, e := range events {
		if e.CalendarID == "work" && e.AssignedMember != "Alex" {
			t.Errorf("expected work events assigned to Alex, got %q", e.AssignedMember)
		}
		if e.CalendarName == "" {
			t.Error("expected a calendar name on every event")
		}
	}
}

func TestEventsUsesCacheWithinTTL(t *testing.T) {
	agg, provider, _ := aggregatorFixture()

	if _, err := agg.Events(context.Background(), "fam-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := agg.Events(context.Background(), "fam-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.openCalls != 1 {
		t.Errorf("expected 1 provider open within the TTL, got %d", provider.openCalls)
	}
	if provider.session.listCalls != 2 {
		t.Errorf("expected 2 list calls (one per calendar), got %d", provider.session.listCalls)
	}
}

func TestEventsRefetchesAfterExpiry(t *testing.T) {
	agg, provider, _ := aggregatorFixture()

	if _, err := agg.Events(context.Background(), "fam-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local)
	agg.now = func() time.Time { return base.Add(6 * time.Minute) }

	if _, err := agg.Events(context.Background(), "fam-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.openCalls != 2 {
		t.Errorf("expected a refetch after expiry, got %d opens", provider.openCalls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	agg, provider, _ := aggregatorFixture()

	if _, err := agg.Events(context.Background(), "fam-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	agg.Invalidate("fam-1")
	if _, err := agg.Events(context.Background(), "fam-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.openCalls != 2 {
		t.Errorf("expected a refetch after invalidation, got %d opens", provider.openCalls)
	}
}

func TestEventsToleratesOneFailingCalendar(t *testing.T) {
	agg, provider, _ := aggregatorFixture()
	provider.session.failing["work"] = true

	events, err := agg.Events(context.Background(), "fam-1")
	if err != nil {
		t.Fatalf("one failing calendar must not abort the fetch: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected the 2 surviving events, got %d", len(events))
	}
	for _, e := range events {
		if e.CalendarID == "work" {
			t.Error("events from the failing calendar must be excluded")
		}
	}
}

func TestEventsNotConnected(t *testing.T) {
	agg, provider, _ := aggregatorFixture()
	provider.openErr = google.ErrNotConnected

	events, err := agg.Events(context.Background(), "fam-1")
	if err != nil {
		t.Fatalf("a disconnected family must not get an error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected an empty list, got %d events", len(events))
	}
}

func TestEventsNoSelections(t *testing.T) {
	agg, provider, selections := aggregatorFixture()
	selections.selections = nil

	events, err := agg.Events(context.Background(), "fam-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected an empty list, got %d events", len(events))
	}
	if provider.session.listCalls != 0 {
		t.Error("no calendars should be fetched without selections")
	}
}

func TestEventWindowSpansTodayAndTomorrow(t *testing.T) {
	now := time.Date(2025, 3, 1, 15, 30, 0, 0, time.Local)
	start, end := eventWindow(now)

	if start != time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local) {
		t.Errorf("expected local midnight, got %v", start)
	}
	if end != time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local) {
		t.Errorf("expected midnight two days on, got %v", end)
	}
}
