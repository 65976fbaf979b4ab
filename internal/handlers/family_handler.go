package handlers

import (
	"net/http"
	"strings"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// FamilyHandler serves the family profile and its members
type FamilyHandler struct {
	families *repository.FamilyRepository
	members  *repository.MemberRepository
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(families *repository.FamilyRepository, members *repository.MemberRepository) *FamilyHandler {
	return &FamilyHandler{families: families, members: members}
}

type familyResponse struct {
	Family  *models.Family  `json:"family"`
	Members []models.Member `json:"members"`
}

// Get handles GET /api/family
func (h *FamilyHandler) Get(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	members, err := h.members.ListByFamily(family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if members == nil {
		members = []models.Member{}
	}
	respondJSON(w, http.StatusOK, familyResponse{Family: family, Members: members})
}

// Update handles PUT /api/family
func (h *FamilyHandler) Update(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.families.UpdateName(family.ID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
