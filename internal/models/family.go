package models

import "time"

// Family is the tenant root; every other record belongs to exactly one family
type Family struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ExternalID string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Member represents one person in a family
type Member struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"` // 'parent' or 'child'
	Age       *int      `json:"age,omitempty"`
	School    *string   `json:"school,omitempty"`
	Work      *string   `json:"work,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// ContextNote is a free-form family fact keyed by topic, fed into the
// assistant's system prompt (e.g. "dietary: no nuts")
type ContextNote struct {
	ID        string    `json:"id"`
	FamilyID  string    `json:"family_id"`
	Key       string    `json:"key"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
