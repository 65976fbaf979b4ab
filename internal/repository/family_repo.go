package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// FamilyRepository handles database operations for families and their members
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// GetByExternalID retrieves the family linked to an identity-provider subject
func (r *FamilyRepository) GetByExternalID(externalID string) (*models.Family, error) {
	query := "SELECT id, name, external_id, created_at FROM families WHERE external_id = ?"
	return r.scanFamily(r.db.QueryRow(query, externalID))
}

// GetByID retrieves a family by ID
func (r *FamilyRepository) GetByID(familyID string) (*models.Family, error) {
	query := "SELECT id, name, external_id, created_at FROM families WHERE id = ?"
	return r.scanFamily(r.db.QueryRow(query, familyID))
}

func (r *FamilyRepository) scanFamily(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(&family.ID, &family.Name, &family.ExternalID, &family.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	return family, nil
}

// ListAll retrieves every family, oldest first
func (r *FamilyRepository) ListAll() ([]models.Family, error) {
	query := "SELECT id, name, external_id, created_at FROM families ORDER BY created_at, id"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		family := models.Family{}
		if err := rows.Scan(&family.ID, &family.Name, &family.ExternalID, &family.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}
	return families, rows.Err()
}

// CreateWithDefaultMember provisions a family for a new identity together
// with a single parent member representing the caller, in one transaction.
// The unique constraint on external_id makes concurrent provisioning for
// the same identity fail here rather than produce two families.
func (r *FamilyRepository) CreateWithDefaultMember(externalID, familyName, memberName string) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	family := &models.Family{
		ID:         uuid.NewString(),
		Name:       familyName,
		ExternalID: externalID,
		CreatedAt:  now,
	}

	query := "INSERT INTO families (id, name, external_id, created_at) VALUES (?, ?, ?, ?)"
	if _, err := tx.Exec(query, family.ID, family.Name, family.ExternalID, family.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = "INSERT INTO family_members (id, family_id, name, role, avatar, created_at) VALUES (?, ?, ?, 'parent', '👤', ?)"
	if _, err := tx.Exec(query, uuid.NewString(), family.ID, memberName, now); err != nil {
		return nil, fmt.Errorf("failed to create default member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return family, nil
}

// UpdateName renames a family
func (r *FamilyRepository) UpdateName(familyID, name string) (*models.Family, error) {
	query := "UPDATE families SET name = ? WHERE id = ?"
	if _, err := r.db.Exec(query, name, familyID); err != nil {
		return nil, fmt.Errorf("failed to update family: %w", err)
	}
	return r.GetByID(familyID)
}
