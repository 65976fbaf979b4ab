package handlers

import (
	"net/http"
	"strings"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// ConversationHandler serves conversation management and history
type ConversationHandler struct {
	conversations *repository.ConversationRepository
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *repository.ConversationRepository) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// List handles GET /api/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	conversations, err := h.conversations.ListByFamily(family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	respondJSON(w, http.StatusOK, conversations)
}

// Create handles POST /api/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New conversation"
	}

	conversation, err := h.conversations.Create(family.ID, title)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, conversation)
}

type conversationDetail struct {
	Conversation *models.Conversation `json:"conversation"`
	Messages     []models.Message     `json:"messages"`
}

// Get handles GET /api/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	conversation, err := h.conversations.GetByID(family.ID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if conversation == nil {
		respondError(w, http.StatusNotFound, "conversation not found")
		return
	}

	messages, err := h.conversations.ListMessages(conversation.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	respondJSON(w, http.StatusOK, conversationDetail{Conversation: conversation, Messages: messages})
}

// Delete handles DELETE /api/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	deleted, err := h.conversations.Delete(family.ID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "conversation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
