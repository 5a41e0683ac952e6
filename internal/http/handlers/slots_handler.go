package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"smartparking/internal/models"
	"smartparking/internal/service"
)

// SlotsHandlers serves slot listing and administration endpoints.
type SlotsHandlers struct {
	slots  *service.SlotService
	logger *zap.Logger
}

// NewSlotsHandlers returns handlers.
func NewSlotsHandlers(slots *service.SlotService, logger *zap.Logger) *SlotsHandlers {
	return &SlotsHandlers{slots: slots, logger: logger}
}

type slotRequest struct {
	SlotNumber   string            `json:"slot_number"`
	VehicleType  string            `json:"vehicle_type"`
	Status       models.SlotStatus `json:"status"`
	PricePerHour float64           `json:"price_per_hour"`
}

// List handles GET /api/v1/slots.
func (h *SlotsHandlers) List(w http.ResponseWriter, r *http.Request) {
	slots, err := h.slots.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list slots", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch slots")
		return
	}
	if slots == nil {
		slots = []models.Slot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

// Create handles POST /api/v1/slots (admin only).
func (h *SlotsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slot, err := h.slots.Create(r.Context(), models.Slot{
		SlotNumber:   req.SlotNumber,
		VehicleType:  req.VehicleType,
		Status:       req.Status,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

// Update handles PUT /api/v1/slots/{id} (admin only).
func (h *SlotsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}

	var req slotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slot, err := h.slots.Update(r.Context(), models.Slot{
		ID:           slotID,
		SlotNumber:   req.SlotNumber,
		VehicleType:  req.VehicleType,
		Status:       req.Status,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

// Delete handles DELETE /api/v1/slots/{id} (admin only).
func (h *SlotsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slot id")
		return
	}

	if err := h.slots.Delete(r.Context(), slotID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Stats handles GET /api/v1/admin/stats (admin only).
func (h *SlotsHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.slots.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to aggregate stats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
