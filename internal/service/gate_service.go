package service

import (
	"context"

	"go.uber.org/zap"

	"smartparking/internal/models"
	"smartparking/internal/repository"
)

// GateLogLister reads the gate audit trail.
type GateLogLister interface {
	List(ctx context.Context, limit int) ([]models.GateLogDetail, error)
}

// GateService is the staff-facing check-in/check-out workflow. Each
// operation delegates the state transition to the lifecycle controller;
// the audit log entry commits in the same transaction as the transition.
type GateService struct {
	bookings *BookingService
	logs     GateLogLister
	logger   *zap.Logger
}

// NewGateService builds the gate workflow.
func NewGateService(bookings *BookingService, logs GateLogLister, logger *zap.Logger) *GateService {
	return &GateService{bookings: bookings, logs: logs, logger: logger}
}

// CheckIn admits the vehicle for an upcoming booking: booking goes
// upcoming -> active, slot reserved -> booked.
func (s *GateService) CheckIn(ctx context.Context, bookingCode string, staffID int64) (*models.BookingDetail, error) {
	booking, err := s.bookings.Transition(ctx,
		bookingCode,
		models.BookingUpcoming,
		models.BookingActive,
		models.SlotBooked,
		&repository.GateLogEntry{StaffID: staffID, Action: models.GateCheckIn},
	)
	if err != nil {
		return nil, err
	}
	s.logger.Info("gate check-in",
		zap.String("booking_code", bookingCode),
		zap.Int64("staff_id", staffID),
	)
	return booking, nil
}

// CheckOut releases the vehicle for an active booking: booking goes
// active -> completed, slot booked -> available.
func (s *GateService) CheckOut(ctx context.Context, bookingCode string, staffID int64) (*models.BookingDetail, error) {
	booking, err := s.bookings.Transition(ctx,
		bookingCode,
		models.BookingActive,
		models.BookingCompleted,
		models.SlotAvailable,
		&repository.GateLogEntry{StaffID: staffID, Action: models.GateCheckOut},
	)
	if err != nil {
		return nil, err
	}
	s.logger.Info("gate check-out",
		zap.String("booking_code", bookingCode),
		zap.Int64("staff_id", staffID),
	)
	return booking, nil
}

// Logs returns the audit trail, newest first.
func (s *GateService) Logs(ctx context.Context, limit int) ([]models.GateLogDetail, error) {
	return s.logs.List(ctx, limit)
}
