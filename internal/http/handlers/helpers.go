package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartparking/internal/models"
	"smartparking/internal/repository"
	"smartparking/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps the expected error taxonomy to HTTP statuses.
// Anything outside the taxonomy is an internal error and stays opaque.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidWindow), errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrStaleState),
		errors.Is(err, repository.ErrSlotNumberTaken),
		errors.Is(err, repository.ErrSlotInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
