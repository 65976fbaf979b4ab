package handlers

import (
	"net/http"
	"strings"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

var choreFrequencies = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
}

// ChoreHandler serves chore CRUD
type ChoreHandler struct {
	chores *repository.ChoreRepository
}

// NewChoreHandler creates a new chore handler
func NewChoreHandler(chores *repository.ChoreRepository) *ChoreHandler {
	return &ChoreHandler{chores: chores}
}

// List handles GET /api/chores with an optional ?status=active|completed filter
func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	status := r.URL.Query().Get("status")
	if status != "" && status != "active" && status != "completed" {
		respondError(w, http.StatusBadRequest, "status must be active or completed")
		return
	}

	chores, err := h.chores.List(family.ID, status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if chores == nil {
		chores = []models.Chore{}
	}
	respondJSON(w, http.StatusOK, chores)
}

// Create handles POST /api/chores
func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req struct {
		Title      string  `json:"title"`
		AssignedTo *string `json:"assigned_to"`
		Frequency  string  `json:"frequency"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Frequency != "" && !choreFrequencies[req.Frequency] {
		respondError(w, http.StatusBadRequest, "frequency must be daily, weekly or monthly")
		return
	}

	chore, err := h.chores.Create(family.ID, req.Title, req.AssignedTo, req.Frequency)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, chore)
}

// Update handles PUT /api/chores/{id}
func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req struct {
		Title      *string `json:"title"`
		AssignedTo *string `json:"assigned_to"`
		Frequency  *string `json:"frequency"`
		Completed  *bool   `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	if req.Frequency != nil && !choreFrequencies[*req.Frequency] {
		respondError(w, http.StatusBadRequest, "frequency must be daily, weekly or monthly")
		return
	}

	chore, err := h.chores.Update(family.ID, r.PathValue("id"), repository.ChoreUpdate{
		Title:      req.Title,
		AssignedTo: req.AssignedTo,
		Frequency:  req.Frequency,
		Completed:  req.Completed,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if chore == nil {
		respondError(w, http.StatusNotFound, "chore not found")
		return
	}
	respondJSON(w, http.StatusOK, chore)
}

// Delete handles DELETE /api/chores/{id}
func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	deleted, err := h.chores.Delete(family.ID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "chore not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
