package handlers

import (
	"net/http"
	"strings"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// ContextHandler serves the family context notes fed into the assistant
type ContextHandler struct {
	notes *repository.ContextRepository
}

// NewContextHandler creates a new context handler
func NewContextHandler(notes *repository.ContextRepository) *ContextHandler {
	return &ContextHandler{notes: notes}
}

// List handles GET /api/context
func (h *ContextHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	notes, err := h.notes.ListByFamily(family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if notes == nil {
		notes = []models.ContextNote{}
	}
	respondJSON(w, http.StatusOK, notes)
}

// Upsert handles PUT /api/context
func (h *ContextHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req struct {
		Key     string `json:"key"`
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Key = strings.TrimSpace(req.Key)
	req.Content = strings.TrimSpace(req.Content)
	if req.Key == "" || req.Content == "" {
		respondError(w, http.StatusBadRequest, "key and content are required")
		return
	}

	note, err := h.notes.Upsert(family.ID, req.Key, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, note)
}
