package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"smartparking/internal/models"
	"smartparking/internal/repository"
)

type fakeSlotStore struct {
	nextID int64
	slots  map[int64]models.Slot
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int64]models.Slot)}
}

func (s *fakeSlotStore) Create(_ context.Context, slot *models.Slot) (*models.Slot, error) {
	for _, existing := range s.slots {
		if existing.SlotNumber == slot.SlotNumber {
			return nil, repository.ErrSlotNumberTaken
		}
	}
	s.nextID++
	created := *slot
	created.ID = s.nextID
	s.slots[created.ID] = created
	return &created, nil
}

func (s *fakeSlotStore) Get(_ context.Context, slotID int64) (*models.Slot, error) {
	slot, ok := s.slots[slotID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slot, nil
}

func (s *fakeSlotStore) List(context.Context) ([]models.Slot, error) {
	var slots []models.Slot
	for _, slot := range s.slots {
		slots = append(slots, slot)
	}
	return slots, nil
}

func (s *fakeSlotStore) Update(_ context.Context, slot *models.Slot) (*models.Slot, error) {
	if _, ok := s.slots[slot.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	s.slots[slot.ID] = *slot
	updated := *slot
	return &updated, nil
}

func (s *fakeSlotStore) Delete(_ context.Context, slotID int64) error {
	if _, ok := s.slots[slotID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.slots, slotID)
	return nil
}

func (s *fakeSlotStore) Stats(context.Context) (*models.AdminStats, error) {
	return &models.AdminStats{TotalSlots: int64(len(s.slots))}, nil
}

func newTestSlotService(store *fakeSlotStore, hub *fakeHub) *SlotService {
	return NewSlotService(store, hub, nil, zap.NewNop())
}

func TestSlotCreateDefaults(t *testing.T) {
	store := newFakeSlotStore()
	svc := newTestSlotService(store, &fakeHub{})

	created, err := svc.Create(context.Background(), models.Slot{SlotNumber: "  P-1  ", PricePerHour: 5.0})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}
	if created.SlotNumber != "P-1" {
		t.Fatalf("slot number not trimmed: %q", created.SlotNumber)
	}
	if created.VehicleType != "Car" || created.Status != models.SlotAvailable {
		t.Fatalf("defaults not applied: %+v", created)
	}

	if _, err := svc.Create(context.Background(), models.Slot{SlotNumber: "P-1", PricePerHour: 5.0}); !errors.Is(err, repository.ErrSlotNumberTaken) {
		t.Fatalf("expected duplicate slot number rejection, got %v", err)
	}
}

func TestSlotCreateValidation(t *testing.T) {
	svc := newTestSlotService(newFakeSlotStore(), &fakeHub{})

	tests := []struct {
		name string
		slot models.Slot
	}{
		{"blank number", models.Slot{SlotNumber: "   ", PricePerHour: 5.0}},
		{"negative rate", models.Slot{SlotNumber: "P-2", PricePerHour: -1}},
		{"bad status", models.Slot{SlotNumber: "P-2", PricePerHour: 5.0, Status: "parked"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.slot); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestSlotUpdateBroadcastsOverride(t *testing.T) {
	store := newFakeSlotStore()
	hub := &fakeHub{}
	svc := newTestSlotService(store, hub)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Slot{SlotNumber: "P-1", PricePerHour: 5.0})
	if err != nil {
		t.Fatalf("create slot: %v", err)
	}

	created.Status = models.SlotMaintenance
	updated, err := svc.Update(ctx, *created)
	if err != nil {
		t.Fatalf("update slot: %v", err)
	}
	if updated.Status != models.SlotMaintenance {
		t.Fatalf("expected maintenance, got %s", updated.Status)
	}

	events := hub.published()
	if len(events) != 1 {
		t.Fatalf("expected one broadcast for the override, got %d", len(events))
	}
	if events[0].Slot.Status != models.SlotMaintenance {
		t.Fatalf("broadcast carries %s, want maintenance", events[0].Slot.Status)
	}
}
