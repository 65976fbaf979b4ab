package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// ConversationRepository handles database operations for conversations and messages
type ConversationRepository struct {
	db *database.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *database.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// ListByFamily retrieves a family's conversations, most recently active first
func (r *ConversationRepository) ListByFamily(familyID string) ([]models.Conversation, error) {
	query := `SELECT id, family_id, title, created_at, updated_at
		FROM conversations WHERE family_id = ? ORDER BY updated_at DESC`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// Create starts a new conversation for a family
func (r *ConversationRepository) Create(familyID, title string) (*models.Conversation, error) {
	now := time.Now().UTC()
	c := &models.Conversation{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	query := "INSERT INTO conversations (id, family_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, c.ID, c.FamilyID, c.Title, c.CreatedAt, c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return c, nil
}

// GetByID retrieves a conversation, scoped to the family
func (r *ConversationRepository) GetByID(familyID, id string) (*models.Conversation, error) {
	query := "SELECT id, family_id, title, created_at, updated_at FROM conversations WHERE id = ? AND family_id = ?"
	c := &models.Conversation{}
	err := r.db.QueryRow(query, id, familyID).Scan(&c.ID, &c.FamilyID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return c, nil
}

// Delete removes a conversation and (via cascade) its messages
func (r *ConversationRepository) Delete(familyID, id string) (bool, error) {
	query := "DELETE FROM conversations WHERE id = ? AND family_id = ?"
	result, err := r.db.Exec(query, id, familyID)
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

// Touch bumps a conversation's updated_at so listings order by recency
func (r *ConversationRepository) Touch(id string) error {
	query := "UPDATE conversations SET updated_at = ? WHERE id = ?"
	if _, err := r.db.Exec(query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

// AddMessage appends a message to a conversation
func (r *ConversationRepository) AddMessage(conversationID, role, content string) (*models.Message, error) {
	m := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	query := "INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.Exec(query, m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	return m, nil
}

// ListMessages retrieves a conversation's messages in order of appearance
func (r *ConversationRepository) ListMessages(conversationID string) ([]models.Message, error) {
	query := `SELECT id, conversation_id, role, content, created_at
		FROM messages WHERE conversation_id = ? ORDER BY created_at, id`
	rows, err := r.db.Query(query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
