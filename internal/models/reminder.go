package models

import "time"

// Reminder is a family to-do, created directly or extracted from an
// assistant reply. AssignedTo holds a member name, not an id: renaming
// a member detaches their reminders (kept for data compatibility).
type Reminder struct {
	ID         string     `json:"id"`
	FamilyID   string     `json:"family_id"`
	Title      string     `json:"title"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	AssignedTo *string    `json:"assigned_to,omitempty"`
	Completed  bool       `json:"completed"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Chore is a recurring household task
type Chore struct {
	ID          string     `json:"id"`
	FamilyID    string     `json:"family_id"`
	Title       string     `json:"title"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	Frequency   string     `json:"frequency"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
