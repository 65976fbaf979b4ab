package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// CalendarRepository handles database operations for calendar selections
type CalendarRepository struct {
	db *database.DB
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(db *database.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

const selectionColumns = "id, family_id, calendar_id, calendar_name, assigned_member, enabled, created_at"

// ListByFamily retrieves every calendar selection for a family
func (r *CalendarRepository) ListByFamily(familyID string) ([]models.CalendarSelection, error) {
	query := "SELECT " + selectionColumns + " FROM calendar_config WHERE family_id = ? ORDER BY calendar_id"
	return r.querySelections(query, familyID)
}

// ListEnabled retrieves the selections the family has opted into
func (r *CalendarRepository) ListEnabled(familyID string) ([]models.CalendarSelection, error) {
	query := "SELECT " + selectionColumns + " FROM calendar_config WHERE family_id = ? AND enabled = TRUE ORDER BY calendar_id"
	return r.querySelections(query, familyID)
}

// SelectionInput describes one calendar in a replacement set
type SelectionInput struct {
	CalendarID     string
	CalendarName   string
	AssignedMember *string
	Enabled        bool
}

// Replace supersedes the family's selection set atomically: the old rows
// are deleted and the enabled entries of the new set inserted in a single
// transaction.
func (r *CalendarRepository) Replace(familyID string, selections []SelectionInput) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM calendar_config WHERE family_id = ?", familyID); err != nil {
		return fmt.Errorf("failed to clear calendar selections: %w", err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO calendar_config (id, family_id, calendar_id, calendar_name, assigned_member, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, TRUE, ?)`
	for _, sel := range selections {
		if !sel.Enabled {
			continue
		}
		if _, err := tx.Exec(query, uuid.NewString(), familyID, sel.CalendarID, sel.CalendarName, sel.AssignedMember, now); err != nil {
			return fmt.Errorf("failed to insert calendar selection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *CalendarRepository) querySelections(query string, args ...interface{}) ([]models.CalendarSelection, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar selections: %w", err)
	}
	defer rows.Close()

	var selections []models.CalendarSelection
	for rows.Next() {
		var s models.CalendarSelection
		var name, member sql.NullString
		if err := rows.Scan(&s.ID, &s.FamilyID, &s.CalendarID, &name, &member, &s.Enabled, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan calendar selection: %w", err)
		}
		if name.Valid {
			s.CalendarName = name.String
		}
		if member.Valid {
			s.AssignedMember = &member.String
		}
		selections = append(selections, s)
	}
	return selections, rows.Err()
}
