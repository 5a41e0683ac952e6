package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"smartparking/internal/models"
	"smartparking/internal/repository"
)

// ProviderOrder is the external provider's view of a created order.
type ProviderOrder struct {
	Ref         string
	AmountMinor int64
	Currency    string
}

// PaymentProvider creates orders with the external payment collaborator.
// Signature verification and the checkout flow live on the provider's
// side; only the confirmed/failed outcome comes back to us.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (ProviderOrder, error)
}

// PaymentStore persists payment records.
type PaymentStore interface {
	CreatePending(ctx context.Context, bookingID int64, amount float64, providerOrderRef string) (*models.Payment, error)
	Resolve(ctx context.Context, providerOrderRef, providerPaymentRef string, status models.PaymentStatus) error
	ListByUser(ctx context.Context, userID int64) ([]models.Payment, error)
}

// SlotReader reads slot state for pricing.
type SlotReader interface {
	Get(ctx context.Context, slotID int64) (*models.Slot, error)
}

const orderCurrency = "INR"

// PaymentService starts online payment flows and reconciles their
// outcomes. It never touches booking or slot state: a failed payment
// leaves the booking alone, cancellation stays a user or staff decision.
type PaymentService struct {
	ledger   ReservationLedger
	slots    SlotReader
	payments PaymentStore
	provider PaymentProvider
	logger   *zap.Logger
}

// NewPaymentService builds the service.
func NewPaymentService(ledger ReservationLedger, slots SlotReader, payments PaymentStore, provider PaymentProvider, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		ledger:   ledger,
		slots:    slots,
		payments: payments,
		provider: provider,
		logger:   logger,
	}
}

// OrderResult is returned to the client to drive the provider checkout.
type OrderResult struct {
	OrderRef    string  `json:"order_ref"`
	Amount      float64 `json:"amount"`
	AmountMinor int64   `json:"amount_minor"`
	Currency    string  `json:"currency"`
}

// CreateOrder prices the booking from its authoritative window, creates a
// provider order and records a pending payment keyed by the provider's
// order reference.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, bookingID int64) (*OrderResult, error) {
	booking, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		// Do not reveal other users' bookings.
		return nil, repository.ErrNotFound
	}

	slot, err := s.slots.Get(ctx, booking.SlotID)
	if err != nil {
		return nil, err
	}

	amount := Price(slot.PricePerHour, booking.Window())
	amountMinor := int64(amount * 100)

	order, err := s.provider.CreateOrder(ctx, amountMinor, orderCurrency, fmt.Sprintf("receipt_booking_%s", booking.BookingCode))
	if err != nil {
		return nil, fmt.Errorf("payment provider: %w", err)
	}

	if _, err := s.payments.CreatePending(ctx, bookingID, amount, order.Ref); err != nil {
		return nil, err
	}

	s.logger.Info("payment order created",
		zap.Int64("booking_id", bookingID),
		zap.String("order_ref", order.Ref),
		zap.Float64("amount", amount),
	)
	return &OrderResult{
		OrderRef:    order.Ref,
		Amount:      amount,
		AmountMinor: amountMinor,
		Currency:    orderCurrency,
	}, nil
}

// Outcomes accepted from the payment collaborator.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

// Confirm consumes the provider's verdict for an order reference and
// updates the matching payment row. Unknown references surface
// repository.ErrNotFound and change nothing.
func (s *PaymentService) Confirm(ctx context.Context, providerOrderRef, providerPaymentRef, outcome string) error {
	var status models.PaymentStatus
	switch outcome {
	case OutcomeCompleted:
		status = models.PaymentCompleted
	case OutcomeFailed:
		status = models.PaymentFailed
	default:
		return ErrInvalidInput
	}

	if err := s.payments.Resolve(ctx, providerOrderRef, providerPaymentRef, status); err != nil {
		return err
	}

	s.logger.Info("payment reconciled",
		zap.String("order_ref", providerOrderRef),
		zap.String("status", string(status)),
	)
	return nil
}

// PaymentsForUser returns the caller's payment history, newest first.
func (s *PaymentService) PaymentsForUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}
