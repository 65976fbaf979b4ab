package calendar

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"familyhub/internal/google"
	"familyhub/internal/models"
)

// maxEventsPerCalendar bounds one provider page; the today/tomorrow
// window never legitimately needs more.
const maxEventsPerCalendar = 50

// SelectionStore lists the calendars a family has opted into
type SelectionStore interface {
	ListEnabled(familyID string) ([]models.CalendarSelection, error)
}

// Aggregator merges events from all of a family's enabled calendars for
// the window from local midnight today through the end of tomorrow,
// caching the merged set per family.
type Aggregator struct {
	provider   Provider
	selections SelectionStore
	cache      *eventCache
	ttl        time.Duration

	// now is swappable in tests
	now func() time.Time
}

// NewAggregator creates an aggregator with the given cache TTL
func NewAggregator(provider Provider, selections SelectionStore, ttl time.Duration) *Aggregator {
	return &Aggregator{
		provider:   provider,
		selections: selections,
		cache:      newEventCache(),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Events returns the family's merged, time-sorted events for today and
// tomorrow. A family with no linked account or no enabled calendars gets
// an empty list, not an error. A failure on one calendar excludes that
// calendar and never aborts the rest.
func (a *Aggregator) Events(ctx context.Context, familyID string) ([]Event, error) {
	entry := a.cache.entry(familyID)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := a.now()
	if entry.fresh(now) {
		return entry.events, nil
	}

	session, err := a.provider.Open(ctx, familyID)
	if err != nil {
		if errors.Is(err, google.ErrNotConnected) {
			return []Event{}, nil
		}
		return nil, err
	}

	selections, err := a.selections.ListEnabled(familyID)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return []Event{}, nil
	}

	timeMin, timeMax := eventWindow(now)

	var merged []Event
	for _, sel := range selections {
		events, err := session.ListEvents(ctx, sel.CalendarID, timeMin, timeMax, maxEventsPerCalendar)
		if err != nil {
			// Partial tolerance: this calendar drops out, the rest survive
			log.Printf("Failed to fetch calendar %s: %v", sel.CalendarID, err)
			continue
		}
		for _, event := range events {
			event.CalendarID = sel.CalendarID
			event.CalendarName = sel.CalendarName
			if event.CalendarName == "" {
				event.CalendarName = sel.CalendarID
			}
			if sel.AssignedMember != nil {
				event.AssignedMember = *sel.AssignedMember
			}
			merged = append(merged, event)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})
	if merged == nil {
		merged = []Event{}
	}

	entry.events = merged
	entry.expires = now.Add(a.ttl)
	return merged, nil
}

// Invalidate drops the family's cached events; called when the selection
// set changes or the account is disconnected.
func (a *Aggregator) Invalidate(familyID string) {
	a.cache.invalidate(familyID)
}

// eventWindow spans local midnight today to midnight two days later
func eventWindow(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 2)
}
