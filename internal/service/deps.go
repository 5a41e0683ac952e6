package service

import (
	"context"

	"smartparking/internal/models"
	"smartparking/internal/repository"
)

// ReservationLedger is the transactional store behind the lifecycle
// controller. Implemented by repository.BookingRepository; tests swap in
// an in-memory fake.
type ReservationLedger interface {
	TryReserve(ctx context.Context, in repository.ReserveInput) (*models.BookingDetail, *models.Slot, error)
	Transition(ctx context.Context, in repository.TransitionInput) (*models.BookingDetail, *models.Slot, error)
	Cancel(ctx context.Context, bookingID, userID int64) (*models.BookingDetail, *models.Slot, error)
	GetByID(ctx context.Context, bookingID int64) (*models.BookingDetail, error)
	GetByCode(ctx context.Context, bookingCode string) (*models.BookingDetail, error)
	ListByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error)
}

// Publisher fans committed slot state changes out to live subscribers.
type Publisher interface {
	Publish(event models.SlotUpdate)
}

// SlotCache keeps the latest committed slot state for the dashboard read
// path. Failures are logged, never propagated to the triggering operation.
type SlotCache interface {
	Save(ctx context.Context, slot models.Slot) error
	Delete(ctx context.Context, slotID int64) error
}
