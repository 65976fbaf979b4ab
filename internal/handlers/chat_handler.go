package handlers

import (
	"net/http"

	"familyhub/internal/models"
	"familyhub/internal/service"
)

// ChatHandler serves the assistant chat endpoint
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

type chatResponse struct {
	Message          *models.Message   `json:"message"`
	RemindersCreated []models.Reminder `json:"reminders_created,omitempty"`
}

// Send handles POST /api/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConversationID == "" {
		respondError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	result, err := h.chat.SendMessage(r.Context(), family, req.ConversationID, req.Message)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, chatResponse{
		Message:          result.Reply,
		RemindersCreated: result.RemindersCreated,
	})
}
