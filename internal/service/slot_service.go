package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"smartparking/internal/models"
)

// SlotStore is the administrative side of the slot table.
type SlotStore interface {
	Create(ctx context.Context, slot *models.Slot) (*models.Slot, error)
	Get(ctx context.Context, slotID int64) (*models.Slot, error)
	List(ctx context.Context) ([]models.Slot, error)
	Update(ctx context.Context, slot *models.Slot) (*models.Slot, error)
	Delete(ctx context.Context, slotID int64) error
	Stats(ctx context.Context) (*models.AdminStats, error)
}

const defaultVehicleType = "Car"

// SlotService handles slot administration. Manual status overrides (for
// example taking a slot into maintenance) are broadcast like any other
// committed slot change so every observer stays consistent.
type SlotService struct {
	store  SlotStore
	hub    Publisher
	cache  SlotCache
	logger *zap.Logger
}

// NewSlotService builds the service.
func NewSlotService(store SlotStore, hub Publisher, cache SlotCache, logger *zap.Logger) *SlotService {
	return &SlotService{store: store, hub: hub, cache: cache, logger: logger}
}

// Create adds a new slot.
func (s *SlotService) Create(ctx context.Context, slot models.Slot) (*models.Slot, error) {
	slot.SlotNumber = strings.TrimSpace(slot.SlotNumber)
	if slot.SlotNumber == "" || slot.PricePerHour < 0 {
		return nil, ErrInvalidInput
	}
	if slot.VehicleType == "" {
		slot.VehicleType = defaultVehicleType
	}
	if slot.Status == "" {
		slot.Status = models.SlotAvailable
	}
	if !slot.Status.Valid() {
		return nil, ErrInvalidInput
	}
	return s.store.Create(ctx, &slot)
}

// List returns all slots.
func (s *SlotService) List(ctx context.Context) ([]models.Slot, error) {
	return s.store.List(ctx)
}

// Update applies an administrative edit and broadcasts the result.
func (s *SlotService) Update(ctx context.Context, slot models.Slot) (*models.Slot, error) {
	if slot.ID <= 0 || strings.TrimSpace(slot.SlotNumber) == "" || !slot.Status.Valid() {
		return nil, ErrInvalidInput
	}

	updated, err := s.store.Update(ctx, &slot)
	if err != nil {
		return nil, err
	}

	s.logger.Info("slot updated",
		zap.Int64("slot_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	if s.hub != nil {
		s.hub.Publish(models.NewSlotUpdate(*updated))
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, *updated); err != nil {
			s.logger.Warn("failed to cache slot state", zap.Int64("slot_id", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// Delete removes a slot; refused while a non-terminal booking exists.
func (s *SlotService) Delete(ctx context.Context, slotID int64) error {
	if err := s.store.Delete(ctx, slotID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, slotID); err != nil {
			s.logger.Warn("failed to evict cached slot", zap.Int64("slot_id", slotID), zap.Error(err))
		}
	}
	return nil
}

// Stats aggregates dashboard counters.
func (s *SlotService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.store.Stats(ctx)
}
