package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// TokenRepository handles database operations for calendar provider credentials
type TokenRepository struct {
	db *database.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *database.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Get retrieves the credential record for a family, nil when never linked
func (r *TokenRepository) Get(familyID string) (*models.CredentialRecord, error) {
	query := `SELECT id, family_id, access_token, refresh_token, token_expiry, updated_at
		FROM google_tokens WHERE family_id = ?`
	record := &models.CredentialRecord{}
	err := r.db.QueryRow(query, familyID).Scan(&record.ID, &record.FamilyID,
		&record.AccessToken, &record.RefreshToken, &record.TokenExpiry, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential record: %w", err)
	}
	return record, nil
}

// Save upserts the credential record for a family. An empty refreshToken
// keeps the stored one: the provider only returns a refresh token on the
// first consent, and it must never be clobbered by a renewal.
func (r *TokenRepository) Save(familyID, accessToken, refreshToken string, expiry time.Time) error {
	now := time.Now().UTC()

	query := `UPDATE google_tokens
		SET access_token = ?,
		    refresh_token = CASE WHEN ? = '' THEN refresh_token ELSE ? END,
		    token_expiry = ?, updated_at = ?
		WHERE family_id = ?`
	result, err := r.db.Exec(query, accessToken, refreshToken, refreshToken, expiry, now, familyID)
	if err != nil {
		return fmt.Errorf("failed to update credential record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check save result: %w", err)
	}
	if affected > 0 {
		return nil
	}

	query = `INSERT INTO google_tokens (id, family_id, access_token, refresh_token, token_expiry, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, uuid.NewString(), familyID, accessToken, refreshToken, expiry, now, now); err != nil {
		return fmt.Errorf("failed to insert credential record: %w", err)
	}
	return nil
}

// Disconnect deletes the credential record and every calendar selection
// for the family in one transaction, so no selection can outlive the
// credential it depends on.
func (r *TokenRepository) Disconnect(familyID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM google_tokens WHERE family_id = ?", familyID); err != nil {
		return fmt.Errorf("failed to delete credential record: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM calendar_config WHERE family_id = ?", familyID); err != nil {
		return fmt.Errorf("failed to delete calendar selections: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
