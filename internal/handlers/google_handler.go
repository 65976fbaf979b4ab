package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"familyhub/internal/calendar"
	"familyhub/internal/google"
	"familyhub/internal/repository"
)

// GoogleHandler serves the Google Calendar connection lifecycle: the OAuth
// flow, connection status, calendar selection and disconnect.
type GoogleHandler struct {
	creds      *google.CredentialManager
	provider   calendar.Provider
	selections *repository.CalendarRepository
	aggregator *calendar.Aggregator
	appBaseURL string
}

// NewGoogleHandler creates a new Google handler
func NewGoogleHandler(creds *google.CredentialManager, provider calendar.Provider, selections *repository.CalendarRepository, aggregator *calendar.Aggregator, appBaseURL string) *GoogleHandler {
	return &GoogleHandler{
		creds:      creds,
		provider:   provider,
		selections: selections,
		aggregator: aggregator,
		appBaseURL: appBaseURL,
	}
}

// Auth handles POST /api/google/auth
func (h *GoogleHandler) Auth(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]string{"url": h.creds.AuthURL(family.ID)})
}

// Callback handles GET /api/google/callback. Google redirects the browser
// here, so the endpoint is unauthenticated; the family comes from the OAuth
// state parameter and the outcome is reported to the settings page.
func (h *GoogleHandler) Callback(w http.ResponseWriter, r *http.Request) {
	familyID := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if familyID == "" || code == "" {
		log.Printf("Google callback missing state or code")
		h.redirectSettings(w, r, "error")
		return
	}

	if err := h.creds.HandleCallback(r.Context(), familyID, code); err != nil {
		log.Printf("Google callback failed for family %s: %v", familyID, err)
		h.redirectSettings(w, r, "error")
		return
	}

	h.aggregator.Invalidate(familyID)
	h.redirectSettings(w, r, "success")
}

func (h *GoogleHandler) redirectSettings(w http.ResponseWriter, r *http.Request, outcome string) {
	url := strings.TrimSuffix(h.appBaseURL, "/") + "/settings?google=" + outcome
	http.Redirect(w, r, url, http.StatusFound)
}

// Status handles GET /api/google/status
func (h *GoogleHandler) Status(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	connected, err := h.creds.Connected(family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"connected": connected})
}

// Disconnect handles DELETE /api/google/status. Stored credentials and the
// calendar selection are removed together.
func (h *GoogleHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	if err := h.creds.Disconnect(family.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	h.aggregator.Invalidate(family.ID)
	w.WriteHeader(http.StatusNoContent)
}

type calendarEntry struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Color          string  `json:"color,omitempty"`
	Enabled        bool    `json:"enabled"`
	AssignedMember *string `json:"assigned_member,omitempty"`
}

type calendarSelectRequest struct {
	Calendars []selectedCalendar `json:"calendars"`
}

type selectedCalendar struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	AssignedMember *string `json:"assigned_member"`
	Enabled        bool    `json:"enabled"`
}

// Calendars handles GET /api/google/calendars: the provider's calendar list
// merged with the saved selection state.
func (h *GoogleHandler) Calendars(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	session, err := h.provider.Open(r.Context(), family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	remote, err := session.ListCalendars(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	saved, err := h.selections.ListByFamily(family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	savedByID := make(map[string]int, len(saved))
	for i, s := range saved {
		savedByID[s.CalendarID] = i
	}

	entries := make([]calendarEntry, 0, len(remote))
	for _, cal := range remote {
		entry := calendarEntry{
			ID:          cal.ID,
			Name:        cal.Name,
			Description: cal.Description,
			Color:       cal.Color,
		}
		if i, ok := savedByID[cal.ID]; ok {
			entry.Enabled = saved[i].Enabled
			entry.AssignedMember = saved[i].AssignedMember
		}
		entries = append(entries, entry)
	}
	respondJSON(w, http.StatusOK, entries)
}

// Select handles POST /api/google/calendars/select, replacing the whole
// selection set atomically.
func (h *GoogleHandler) Select(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req calendarSelectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inputs := make([]repository.SelectionInput, 0, len(req.Calendars))
	for _, cal := range req.Calendars {
		if cal.ID == "" {
			respondError(w, http.StatusBadRequest, "calendar id is required")
			return
		}
		inputs = append(inputs, repository.SelectionInput{
			CalendarID:     cal.ID,
			CalendarName:   cal.Name,
			AssignedMember: cal.AssignedMember,
			Enabled:        cal.Enabled,
		})
	}

	if err := h.selections.Replace(family.ID, inputs); err != nil {
		respondServiceError(w, err)
		return
	}
	h.aggregator.Invalidate(family.ID)
	w.WriteHeader(http.StatusNoContent)
}

// EventsHandler serves the aggregated event feed
type EventsHandler struct {
	aggregator *calendar.Aggregator
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(aggregator *calendar.Aggregator) *EventsHandler {
	return &EventsHandler{aggregator: aggregator}
}

// List handles GET /api/events. A family without a Google connection gets an
// empty list, not an error.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	events, err := h.aggregator.Events(r.Context(), family.ID)
	if err != nil {
		if errors.Is(err, google.ErrNotConnected) {
			respondJSON(w, http.StatusOK, []calendar.Event{})
			return
		}
		respondServiceError(w, err)
		return
	}
	if events == nil {
		events = []calendar.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}
