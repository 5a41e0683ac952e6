package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"smartparking/internal/http/middleware"
	"smartparking/internal/models"
	"smartparking/internal/service"
)

// PaymentsHandlers serves the online payment flow endpoints.
type PaymentsHandlers struct {
	payments *service.PaymentService
	logger   *zap.Logger
}

// NewPaymentsHandlers returns handlers.
func NewPaymentsHandlers(payments *service.PaymentService, logger *zap.Logger) *PaymentsHandlers {
	return &PaymentsHandlers{payments: payments, logger: logger}
}

type createOrderRequest struct {
	BookingID int64 `json:"booking_id"`
}

// CreateOrder handles POST /api/v1/payments/create-order.
func (h *PaymentsHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.payments.CreateOrder(r.Context(), userID, req.BookingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

type confirmPaymentRequest struct {
	ProviderOrderRef   string `json:"provider_order_ref"`
	ProviderPaymentRef string `json:"provider_payment_ref"`
	Outcome            string `json:"outcome"`
}

// Confirm handles POST /api/v1/payments/confirm: the reconciliation
// signal from the external payment collaborator.
func (h *PaymentsHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ProviderOrderRef) == "" {
		writeError(w, http.StatusBadRequest, "provider_order_ref is required")
		return
	}

	if err := h.payments.Confirm(r.Context(), req.ProviderOrderRef, req.ProviderPaymentRef, req.Outcome); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// Me handles GET /api/v1/payments/me.
func (h *PaymentsHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	payments, err := h.payments.PaymentsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list payments", zap.Int64("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	writeJSON(w, http.StatusOK, payments)
}
