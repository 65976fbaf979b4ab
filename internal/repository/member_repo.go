package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// MemberRepository handles database operations for family members
type MemberRepository struct {
	db *database.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = "id, family_id, name, role, age, school, work, notes, avatar, created_at"

// ListByFamily retrieves all members of a family in creation order
func (r *MemberRepository) ListByFamily(familyID string) ([]models.Member, error) {
	query := "SELECT " + memberColumns + " FROM family_members WHERE family_id = ? ORDER BY created_at, id"
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	return members, rows.Err()
}

// GetByID retrieves one member, scoped to the family
func (r *MemberRepository) GetByID(familyID, id string) (*models.Member, error) {
	query := "SELECT " + memberColumns + " FROM family_members WHERE id = ? AND family_id = ?"
	rows, err := r.db.Query(query, id, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanMember(rows)
}

// MemberInput holds the writable fields of a member
type MemberInput struct {
	Name   *string
	Role   *string
	Age    *int
	School *string
	Work   *string
	Notes  *string
	Avatar *string
}

// Create adds a member to a family
func (r *MemberRepository) Create(familyID string, input MemberInput) (*models.Member, error) {
	id := uuid.NewString()
	role := "child"
	if input.Role != nil && *input.Role != "" {
		role = *input.Role
	}
	avatar := "👤"
	if input.Avatar != nil && *input.Avatar != "" {
		avatar = *input.Avatar
	}

	query := `INSERT INTO family_members (id, family_id, name, role, age, school, work, notes, avatar, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.Exec(query, id, familyID, *input.Name, role,
		input.Age, input.School, input.Work, input.Notes, avatar, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return r.GetByID(familyID, id)
}

// Update modifies a member. Name, role and avatar keep their current value
// when omitted; age, school, work and notes are overwritten (a nil clears
// the field), matching the settings screen semantics.
func (r *MemberRepository) Update(familyID, id string, input MemberInput) (*models.Member, error) {
	query := `UPDATE family_members
		SET name = COALESCE(?, name), role = COALESCE(?, role),
		    age = ?, school = ?, work = ?, notes = ?,
		    avatar = COALESCE(?, avatar)
		WHERE id = ? AND family_id = ?`
	result, err := r.db.Exec(query, input.Name, input.Role,
		input.Age, input.School, input.Work, input.Notes,
		input.Avatar, id, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
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

// Delete removes a member from a family; returns false if no row matched
func (r *MemberRepository) Delete(familyID, id string) (bool, error) {
	query := "DELETE FROM family_members WHERE id = ? AND family_id = ?"
	result, err := r.db.Exec(query, id, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

func scanMember(rows *sql.Rows) (*models.Member, error) {
	member := &models.Member{}
	var age sql.NullInt64
	var school, work, notes sql.NullString
	err := rows.Scan(&member.ID, &member.FamilyID, &member.Name, &member.Role,
		&age, &school, &work, &notes, &member.Avatar, &member.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}
	if age.Valid {
		v := int(age.Int64)
		member.Age = &v
	}
	if school.Valid {
		member.School = &school.String
	}
	if work.Valid {
		member.Work = &work.String
	}
	if notes.Valid {
		member.Notes = &notes.String
	}
	return member, nil
}
