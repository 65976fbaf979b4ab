package calendar

import "time"

// Event is a provider event normalized into the shape the app serves
type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	CalendarID     string    `json:"calendarId"`
	CalendarName   string    `json:"calendarName"`
	AssignedMember string    `json:"assignedMember,omitempty"`
	AllDay         bool      `json:"allDay"`
}

// RemoteCalendar is one entry of the provider's calendar list, shown on
// the settings screen for opt-in
type RemoteCalendar struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}
