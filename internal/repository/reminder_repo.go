package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// ReminderRepository handles database operations for reminders
type ReminderRepository struct {
	db *database.DB
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

const reminderColumns = "id, family_id, title, due_at, assigned_to, completed, created_at"

// ListOpen retrieves a family's uncompleted reminders, due date ascending
// with undated reminders last. The order is total (id tiebreak) so the
// assistant prompt built from it is stable between turns.
func (r *ReminderRepository) ListOpen(familyID string) ([]models.Reminder, error) {
	query := "SELECT " + reminderColumns + ` FROM reminders
		WHERE family_id = ? AND completed = FALSE
		ORDER BY due_at IS NULL, due_at, created_at, id`
	return r.queryReminders(query, familyID)
}

// GetByID retrieves one reminder, scoped to the family
func (r *ReminderRepository) GetByID(familyID, id string) (*models.Reminder, error) {
	query := "SELECT " + reminderColumns + " FROM reminders WHERE id = ? AND family_id = ?"
	rows, err := r.db.Query(query, id, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanReminder(rows)
}

// Create inserts a reminder for a family
func (r *ReminderRepository) Create(familyID, title string, dueAt *time.Time, assignedTo *string) (*models.Reminder, error) {
	reminder := &models.Reminder{
		ID:         uuid.NewString(),
		FamilyID:   familyID,
		Title:      title,
		DueAt:      dueAt,
		AssignedTo: assignedTo,
		CreatedAt:  time.Now().UTC(),
	}
	query := `INSERT INTO reminders (id, family_id, title, due_at, assigned_to, completed, created_at)
		VALUES (?, ?, ?, ?, ?, FALSE, ?)`
	_, err := r.db.Exec(query, reminder.ID, reminder.FamilyID, reminder.Title,
		reminder.DueAt, reminder.AssignedTo, reminder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

// ReminderUpdate holds the patchable fields of a reminder; nil means keep
type ReminderUpdate struct {
	Title      *string
	DueAt      *time.Time
	AssignedTo *string
	Completed  *bool
}

// Update patches a reminder, scoped to the family
func (r *ReminderRepository) Update(familyID, id string, update ReminderUpdate) (*models.Reminder, error) {
	query := `UPDATE reminders
		SET title = COALESCE(?, title), due_at = COALESCE(?, due_at),
		    assigned_to = COALESCE(?, assigned_to), completed = COALESCE(?, completed)
		WHERE id = ? AND family_id = ?`
	result, err := r.db.Exec(query, update.Title, update.DueAt, update.AssignedTo, update.Completed, id, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to update reminder: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return r.GetByID(familyID, id)
}

// Delete removes a reminder, scoped to the family
func (r *ReminderRepository) Delete(familyID, id string) (bool, error) {
	query := "DELETE FROM reminders WHERE id = ? AND family_id = ?"
	result, err := r.db.Exec(query, id, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reminder: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

func (r *ReminderRepository) queryReminders(query string, args ...interface{}) ([]models.Reminder, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *reminder)
	}
	return reminders, rows.Err()
}

func scanReminder(rows *sql.Rows) (*models.Reminder, error) {
	reminder := &models.Reminder{}
	var dueAt sql.NullTime
	var assignedTo sql.NullString
	err := rows.Scan(&reminder.ID, &reminder.FamilyID, &reminder.Title,
		&dueAt, &assignedTo, &reminder.Completed, &reminder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan reminder: %w", err)
	}
	if dueAt.Valid {
		reminder.DueAt = &dueAt.Time
	}
	if assignedTo.Valid {
		reminder.AssignedTo = &assignedTo.String
	}
	return reminder, nil
}
