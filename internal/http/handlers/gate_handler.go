package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"smartparking/internal/http/middleware"
	"smartparking/internal/models"
	"smartparking/internal/service"
)

// GateHandlers serves the staff-facing gate terminal endpoints.
type GateHandlers struct {
	gate   *service.GateService
	logger *zap.Logger
}

// NewGateHandlers returns handlers.
func NewGateHandlers(gate *service.GateService, logger *zap.Logger) *GateHandlers {
	return &GateHandlers{gate: gate, logger: logger}
}

type gateRequest struct {
	BookingCode string `json:"booking_code"`
}

// CheckIn handles POST /api/v1/gate/checkin (staff only).
func (h *GateHandlers) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.handleGateAction(w, r, h.gate.CheckIn)
}

// CheckOut handles POST /api/v1/gate/checkout (staff only).
func (h *GateHandlers) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.handleGateAction(w, r, h.gate.CheckOut)
}

func (h *GateHandlers) handleGateAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, bookingCode string, staffID int64) (*models.BookingDetail, error)) {
	staffID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing staff identity")
		return
	}

	var req gateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.BookingCode = strings.TrimSpace(req.BookingCode)
	if req.BookingCode == "" {
		writeError(w, http.StatusBadRequest, "booking_code is required")
		return
	}

	booking, err := action(r.Context(), req.BookingCode, staffID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Logs handles GET /api/v1/gate/logs (staff only).
func (h *GateHandlers) Logs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.gate.Logs(r.Context(), 100)
	if err != nil {
		h.logger.Error("failed to list gate logs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch gate logs")
		return
	}
	if logs == nil {
		logs = []models.GateLogDetail{}
	}
	writeJSON(w, http.StatusOK, logs)
}
