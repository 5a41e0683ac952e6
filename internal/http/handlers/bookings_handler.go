package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"smartparking/internal/http/middleware"
	"smartparking/internal/models"
	"smartparking/internal/service"
)

// BookingsHandlers serves reservation endpoints for the logged-in user.
type BookingsHandlers struct {
	bookings *service.BookingService
	logger   *zap.Logger
}

// NewBookingsHandlers returns handlers.
func NewBookingsHandlers(bookings *service.BookingService, logger *zap.Logger) *BookingsHandlers {
	return &BookingsHandlers{bookings: bookings, logger: logger}
}

type createBookingRequest struct {
	SlotID        int64     `json:"slot_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	VehicleID     int64     `json:"vehicle_id"`
	PaymentMethod string    `json:"payment_method"`
}

// Create handles POST /api/v1/bookings.
func (h *BookingsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), userID, service.CreateBookingInput{
		SlotID:        req.SlotID,
		VehicleID:     req.VehicleID,
		Window:        models.Window{Start: req.StartTime, End: req.EndTime},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// Me handles GET /api/v1/bookings/me.
func (h *BookingsHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	bookings, err := h.bookings.BookingsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list bookings", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch bookings")
		return
	}
	if bookings == nil {
		bookings = []models.BookingDetail{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Cancel handles POST /api/v1/bookings/{id}/cancel.
func (h *BookingsHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	bookingID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.bookings.CancelBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
