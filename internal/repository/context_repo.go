package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// ContextRepository handles database operations for family context notes
type ContextRepository struct {
	db *database.DB
}

// NewContextRepository creates a new context repository
func NewContextRepository(db *database.DB) *ContextRepository {
	return &ContextRepository{db: db}
}

// ListByFamily retrieves a family's context notes ordered by key
func (r *ContextRepository) ListByFamily(familyID string) ([]models.ContextNote, error) {
	query := `SELECT id, family_id, key, content, updated_at
		FROM family_context WHERE family_id = ? ORDER BY key`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query context notes: %w", err)
	}
	defer rows.Close()

	var notes []models.ContextNote
	for rows.Next() {
		var n models.ContextNote
		if err := rows.Scan(&n.ID, &n.FamilyID, &n.Key, &n.Content, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan context note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Upsert inserts or replaces the note stored under a key. Written as
// update-then-insert so it stays portable across all three dialects.
func (r *ContextRepository) Upsert(familyID, key, content string) (*models.ContextNote, error) {
	now := time.Now().UTC()

	query := "UPDATE family_context SET content = ?, updated_at = ? WHERE family_id = ? AND key = ?"
	result, err := r.db.Exec(query, content, now, familyID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to update context note: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check upsert result: %w", err)
	}

	if affected == 0 {
		query = "INSERT INTO family_context (id, family_id, key, content, updated_at) VALUES (?, ?, ?, ?, ?)"
		if _, err := r.db.Exec(query, uuid.NewString(), familyID, key, content, now); err != nil {
			return nil, fmt.Errorf("failed to insert context note: %w", err)
		}
	}

	row := r.db.QueryRow("SELECT id, family_id, key, content, updated_at FROM family_context WHERE family_id = ? AND key = ?", familyID, key)
	n := &models.ContextNote{}
	if err := row.Scan(&n.ID, &n.FamilyID, &n.Key, &n.Content, &n.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to reload context note: %w", err)
	}
	return n, nil
}
