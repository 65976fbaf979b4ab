package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"familyhub/internal/assistant"
	"familyhub/internal/google"
	"familyhub/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service-layer errors onto HTTP statuses. Unknown
// errors become a logged 500 with a generic body.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, google.ErrNotConnected):
		respondError(w, http.StatusBadRequest, "Google Calendar is not connected")
	case errors.Is(err, assistant.ErrUpstream):
		log.Printf("Assistant upstream error: %v", err)
		respondError(w, http.StatusBadGateway, "The assistant is unavailable right now")
	case errors.Is(err, google.ErrUpstream):
		log.Printf("Calendar provider error: %v", err)
		respondError(w, http.StatusBadGateway, "The calendar provider is unavailable right now")
	default:
		log.Printf("Internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
