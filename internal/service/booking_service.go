package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"smartparking/internal/models"
	"smartparking/internal/repository"
)

// ErrInvalidInput rejects malformed requests before they reach the ledger.
var ErrInvalidInput = errors.New("invalid input")

// BookingService is the booking lifecycle controller. It owns the joint
// Booking/Slot state machine, delegates atomic writes to the ledger and
// publishes each committed slot change exactly once, after commit.
type BookingService struct {
	ledger ReservationLedger
	hub    Publisher
	cache  SlotCache
	locks  *slotLocks
	logger *zap.Logger
}

// NewBookingService builds the controller.
func NewBookingService(ledger ReservationLedger, hub Publisher, cache SlotCache, logger *zap.Logger) *BookingService {
	return &BookingService{
		ledger: ledger,
		hub:    hub,
		cache:  cache,
		locks:  newSlotLocks(),
		logger: logger,
	}
}

// CreateBookingInput is a reservation request for the calling user.
type CreateBookingInput struct {
	SlotID        int64
	VehicleID     int64
	Window        models.Window
	PaymentMethod string
}

// CreateBooking reserves the slot for the window, or fails with
// repository.ErrConflict when any upcoming or active booking overlaps.
// A rejected attempt leaves no visible state behind.
func (s *BookingService) CreateBooking(ctx context.Context, userID int64, in CreateBookingInput) (*models.BookingDetail, error) {
	if err := in.Window.Validate(); err != nil {
		return nil, err
	}
	if in.SlotID <= 0 || in.VehicleID <= 0 {
		return nil, ErrInvalidInput
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentMethodCash
	}
	if in.PaymentMethod != models.PaymentMethodCash && in.PaymentMethod != models.PaymentMethodOnline {
		return nil, ErrInvalidInput
	}

	unlock := s.locks.acquire(in.SlotID)
	defer unlock()

	booking, slot, err := s.ledger.TryReserve(ctx, repository.ReserveInput{
		SlotID:        in.SlotID,
		UserID:        userID,
		VehicleID:     in.VehicleID,
		Window:        in.Window,
		PaymentMethod: in.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_code", booking.BookingCode),
		zap.Int64("slot_id", slot.ID),
		zap.Time("start_time", booking.StartTime),
		zap.Time("end_time", booking.EndTime),
	)
	s.publish(ctx, *slot)
	return booking, nil
}

// Transition drives the booking resolved by code from expected to next,
// flipping the slot accordingly. The check and the compare-and-swap run
// under the per-slot lock so a concurrent transition on the same booking
// fails with ErrInvalidTransition instead of silently double-applying.
func (s *BookingService) Transition(ctx context.Context, bookingCode string, expected, next models.BookingStatus, slotNext models.SlotStatus, log *repository.GateLogEntry) (*models.BookingDetail, error) {
	current, err := s.ledger.GetByCode(ctx, bookingCode)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(current.SlotID)
	defer unlock()

	// Re-read under the lock: the status may have moved while we waited.
	current, err = s.ledger.GetByCode(ctx, bookingCode)
	if err != nil {
		return nil, err
	}
	if current.Status != expected {
		return nil, repository.ErrInvalidTransition
	}

	booking, slot, err := s.ledger.Transition(ctx, repository.TransitionInput{
		BookingCode: bookingCode,
		Expected:    expected,
		Next:        next,
		SlotNext:    slotNext,
		Log:         log,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking transitioned",
		zap.String("booking_code", bookingCode),
		zap.String("from", string(expected)),
		zap.String("to", string(next)),
		zap.Int64("slot_id", slot.ID),
	)
	s.publish(ctx, *slot)
	return booking, nil
}

// CancelBooking cancels an upcoming booking owned by userID and frees the
// slot when nothing else occupies it at the current moment.
func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID int64) (*models.BookingDetail, error) {
	current, err := s.ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, repository.ErrNotFound
	}

	unlock := s.locks.acquire(current.SlotID)
	defer unlock()

	booking, slot, err := s.ledger.Cancel(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_code", booking.BookingCode),
		zap.Int64("slot_id", slot.ID),
	)
	s.publish(ctx, *slot)
	return booking, nil
}

// BookingsForUser returns the caller's booking history.
func (s *BookingService) BookingsForUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	return s.ledger.ListByUser(ctx, userID)
}

// publish runs strictly after the transaction that produced slot has
// committed, while the per-slot lock is still held.
func (s *BookingService) publish(ctx context.Context, slot models.Slot) {
	if s.hub != nil {
		s.hub.Publish(models.NewSlotUpdate(slot))
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, slot); err != nil {
			s.logger.Warn("failed to cache slot state", zap.Int64("slot_id", slot.ID), zap.Error(err))
		}
	}
}
