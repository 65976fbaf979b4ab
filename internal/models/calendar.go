package models

import "time"

// CredentialRecord stores a family's OAuth tokens for the calendar
// provider; at most one row per family
type CredentialRecord struct {
	ID           string    `json:"-"`
	FamilyID     string    `json:"-"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	TokenExpiry  time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Expired reports whether the stored access token has passed its expiry
func (c *CredentialRecord) Expired(now time.Time) bool {
	return !now.Before(c.TokenExpiry)
}

// CalendarSelection is a family's opt-in record for one remote calendar
type CalendarSelection struct {
	ID             string    `json:"id"`
	FamilyID       string    `json:"family_id"`
	CalendarID     string    `json:"calendar_id"`
	CalendarName   string    `json:"calendar_name"`
	AssignedMember *string   `json:"assigned_member,omitempty"`
	Enabled        bool      `json:"enabled"`
	CreatedAt      time.Time `json:"created_at"`
}
