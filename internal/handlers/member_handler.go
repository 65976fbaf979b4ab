package handlers

import (
	"net/http"
	"strings"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

// MemberHandler serves family member CRUD
type MemberHandler struct {
	members *repository.MemberRepository
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(members *repository.MemberRepository) *MemberHandler {
	return &MemberHandler{members: members}
}

type memberRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Age    *int    `json:"age"`
	School *string `json:"school"`
	Work   *string `json:"work"`
	Notes  *string `json:"notes"`
	Avatar *string `json:"avatar"`
}

func (req *memberRequest) input() repository.MemberInput {
	return repository.MemberInput{
		Name:   req.Name,
		Role:   req.Role,
		Age:    req.Age,
		School: req.School,
		Work:   req.Work,
		Notes:  req.Notes,
		Avatar: req.Avatar,
	}
}

// List handles GET /api/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())
	members, err := h.members.ListByFamily(family.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if members == nil {
		members = []models.Member{}
	}
	respondJSON(w, http.StatusOK, members)
}

// Create handles POST /api/members
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Role != nil && *req.Role != "parent" && *req.Role != "child" {
		respondError(w, http.StatusBadRequest, "role must be parent or child")
		return
	}

	member, err := h.members.Create(family.ID, req.input())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

// Update handles PUT /api/members/{id}
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		respondError(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	if req.Role != nil && *req.Role != "parent" && *req.Role != "child" {
		respondError(w, http.StatusBadRequest, "role must be parent or child")
		return
	}

	member, err := h.members.Update(family.ID, r.PathValue("id"), req.input())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if member == nil {
		respondError(w, http.StatusNotFound, "member not found")
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// Delete handles DELETE /api/members/{id}
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	family := GetFamilyFromContext(r.Context())

	deleted, err := h.members.Delete(family.ID, r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "member not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
