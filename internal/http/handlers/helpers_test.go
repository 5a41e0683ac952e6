package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"smartparking/internal/models"
	"smartparking/internal/repository"
	"smartparking/internal/service"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid window", models.ErrInvalidWindow, http.StatusBadRequest},
		{"invalid input", service.ErrInvalidInput, http.StatusBadRequest},
		{"not found", repository.ErrNotFound, http.StatusNotFound},
		{"conflict", repository.ErrConflict, http.StatusConflict},
		{"stale state", repository.ErrStaleState, http.StatusConflict},
		{"slot number taken", repository.ErrSlotNumberTaken, http.StatusConflict},
		{"slot in use", repository.ErrSlotInUse, http.StatusConflict},
		{"invalid transition", repository.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDomainError(rec, tt.err)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] == "" {
				t.Fatalf("empty error message")
			}
		})
	}

	// Internal errors never leak the underlying cause.
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("pq: connection refused"))
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "internal error" {
		t.Fatalf("internal error must stay opaque, got %q", body["error"])
	}
}
