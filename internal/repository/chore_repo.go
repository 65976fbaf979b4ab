package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// ChoreRepository handles database operations for chores
type ChoreRepository struct {
	db *database.DB
}

// NewChoreRepository creates a new chore repository
func NewChoreRepository(db *database.DB) *ChoreRepository {
	return &ChoreRepository{db: db}
}

const choreColumns = "id, family_id, title, assigned_to, frequency, completed, completed_at, created_at"

// List retrieves a family's chores, newest first. status filters to
// "active" or "completed"; any other value returns everything.
func (r *ChoreRepository) List(familyID, status string) ([]models.Chore, error) {
	query := "SELECT " + choreColumns + " FROM chores WHERE family_id = ?"
	args := []interface{}{familyID}

	switch status {
	case "active":
		query += " AND completed = FALSE"
	case "completed":
		query += " AND completed = TRUE"
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chores: %w", err)
	}
	defer rows.Close()

	var chores []models.Chore
	for rows.Next() {
		chore, err := scanChore(rows)
		if err != nil {
			return nil, err
		}
		chores = append(chores, *chore)
	}
	return chores, rows.Err()
}

// GetByID retrieves one chore, scoped to the family
func (r *ChoreRepository) GetByID(familyID, id string) (*models.Chore, error) {
	query := "SELECT " + choreColumns + " FROM chores WHERE id = ? AND family_id = ?"
	rows, err := r.db.Query(query, id, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chore: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanChore(rows)
}

// Create inserts a chore for a family
func (r *ChoreRepository) Create(familyID, title string, assignedTo *string, frequency string) (*models.Chore, error) {
	if frequency == "" {
		frequency = "daily"
	}
	chore := &models.Chore{
		ID:         uuid.NewString(),
		FamilyID:   familyID,
		Title:      title,
		AssignedTo: assignedTo,
		Frequency:  frequency,
		CreatedAt:  time.Now().UTC(),
	}
	query := `INSERT INTO chores (id, family_id, title, assigned_to, frequency, completed, created_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?)`
	_, err := r.db.Exec(query, chore.ID, chore.FamilyID, chore.Title,
		chore.AssignedTo, chore.Frequency, chore.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create chore: %w", err)
	}
	return chore, nil
}

// ChoreUpdate holds the patchable fields of a chore; nil means keep
type ChoreUpdate struct {
	Title      *string
	AssignedTo *string
	Frequency  *string
	Completed  *bool
}

// Update patches a chore. Marking it completed stamps completed_at;
// reopening clears it.
func (r *ChoreRepository) Update(familyID, id string, update ChoreUpdate) (*models.Chore, error) {
	existing, err := r.GetByID(familyID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	var completedAt interface{}
	if existing.CompletedAt != nil {
		completedAt = *existing.CompletedAt
	}
	if update.Completed != nil {
		if *update.Completed {
			completedAt = time.Now().UTC()
		} else {
			completedAt = nil
		}
	}

	query := `UPDATE chores
		SET title = COALESCE(?, title), assigned_to = COALESCE(?, assigned_to),
		    frequency = COALESCE(?, frequency), completed = COALESCE(?, completed),
		    completed_at = ?
		WHERE id = ? AND family_id = ?`
	_, err = r.db.Exec(query, update.Title, update.AssignedTo, update.Frequency,
		update.Completed, completedAt, id, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to update chore: %w", err)
	}
	return r.GetByID(familyID, id)
}

// Delete removes a chore, scoped to the family
func (r *ChoreRepository) Delete(familyID, id string) (bool, error) {
	query := "DELETE FROM chores WHERE id = ? AND family_id = ?"
	result, err := r.db.Exec(query, id, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete chore: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

func scanChore(rows *sql.Rows) (*models.Chore, error) {
	chore := &models.Chore{}
	var assignedTo sql.NullString
	var completedAt sql.NullTime
	err := rows.Scan(&chore.ID, &chore.FamilyID, &chore.Title, &assignedTo,
		&chore.Frequency, &chore.Completed, &completedAt, &chore.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan chore: %w", err)
	}
	if assignedTo.Valid {
		chore.AssignedTo = &assignedTo.String
	}
	if completedAt.Valid {
		chore.CompletedAt = &completedAt.Time
	}
	return chore, nil
}
