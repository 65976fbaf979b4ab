package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"familyhub/internal/google"
)

// Provider opens authenticated calendar sessions for a family
type Provider interface {
	// Open prepares a session, refreshing the family's credential if it
	// has expired. Returns google.ErrNotConnected for a family that never
	// linked an account.
	Open(ctx context.Context, familyID string) (Session, error)
}

// Session is an authenticated view of one family's remote calendars
type Session interface {
	ListCalendars(ctx context.Context) ([]RemoteCalendar, error)
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]Event, error)
}

// GoogleProvider backs Provider with the Google Calendar API
type GoogleProvider struct {
	creds *google.CredentialManager
}

// NewGoogleProvider creates a provider using the given credential manager
func NewGoogleProvider(creds *google.CredentialManager) *GoogleProvider {
	return &GoogleProvider{creds: creds}
}

// Open obtains a valid token (refreshing at most once) and builds a
// calendar service bound to it.
func (p *GoogleProvider) Open(ctx context.Context, familyID string) (Session, error) {
	token, err := p.creds.TokenFor(ctx, familyID)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &googleSession{svc: svc}, nil
}

type googleSession struct {
	svc *gcal.Service
}

func (s *googleSession) ListCalendars(ctx context.Context) ([]RemoteCalendar, error) {
	list, err := s.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w: %v", google.ErrUpstream, err)
	}

	var calendars []RemoteCalendar
	for _, item := range list.Items {
		calendars = append(calendars, RemoteCalendar{
			ID:          item.Id,
			Name:        item.Summary,
			Description: item.Description,
			Color:       item.BackgroundColor,
		})
	}
	return calendars, nil
}

func (s *googleSession) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]Event, error) {
	result, err := s.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w: %v", google.ErrUpstream, err)
	}

	var events []Event
	for _, item := range result.Items {
		// Untitled events carry no information worth showing
		if item.Summary == "" {
			continue
		}
		event := Event{
			ID:    item.Id,
			Title: item.Summary,
			// The provider expresses all-day events as a bare date
			AllDay: item.Start != nil && item.Start.Date != "",
		}
		event.Start = parseEventTime(item.Start)
		event.End = parseEventTime(item.End)
		events = append(events, event)
	}
	return events, nil
}

func parseEventTime(edt *gcal.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		t, err := time.Parse(time.RFC3339, edt.DateTime)
		if err == nil {
			return t
		}
	}
	if edt.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", edt.Date, time.Local)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}
