package handlers

import (
	"net/http"
	"strings"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// ReminderHandler serves reminder CRUD
type ReminderHandler struct {
	reminders *repository.ReminderRepository
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminders *repository.ReminderRepository) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// List handles GET /api/reminders
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	reminders, err := h.reminders.ListOpen(family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	respondJSON(w, http.StatusOK, reminders)
}

// Create handles POST /api/reminders
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req struct {
		Title      string     `json:"title"`
		DueAt      *time.Time `json:"due_at"`
		AssignedTo *string    `json:"assigned_to"`
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

	reminder, err := h.reminders.Create(family.ID, req.Title, req.DueAt, req.AssignedTo)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, reminder)
}

// Update handles PUT /api/reminders/{id}
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req struct {
		Title      *string    `json:"title"`
		DueAt      *time.Time `json:"due_at"`
		AssignedTo *string    `json:"assigned_to"`
		Completed  *bool      `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		respondError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	reminder, err := h.reminders.Update(family.ID, r.PathValue("id"), repository.ReminderUpdate{
		Title:      req.Title,
		DueAt:      req.DueAt,
		AssignedTo: req.AssignedTo,
		Completed:  req.Completed,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if reminder == nil {
		respondError(w, http.StatusNotFound, "reminder not found")
		return
	}
	respondJSON(w, http.StatusOK, reminder)
}

// Delete handles DELETE /api/reminders/{id}
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	deleted, err := h.reminders.Delete(family.ID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "reminder not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
