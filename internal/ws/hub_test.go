package ws

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"smartparking/internal/models"
)

func slotUpdate(status models.SlotStatus) models.SlotUpdate {
	return models.NewSlotUpdate(models.Slot{
		ID: 1, SlotNumber: "P-12", VehicleType: "Car",
		Status: status, PricePerHour: 5.0,
	})
}

func decode(t *testing.T, payload []byte) models.SlotUpdate {
	t.Helper()
	var event models.SlotUpdate
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return event
}

func drain(t *testing.T, ch <-chan []byte, n int) []models.SlotUpdate {
	t.Helper()
	events := make([]models.SlotUpdate, 0, n)
	for i := 0; i < n; i++ {
		select {
		case payload, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d events, want %d", i, n)
			}
			events = append(events, decode(t, payload))
		default:
			t.Fatalf("only %d events buffered, want %d", i, n)
		}
	}
	return events
}

func TestHubSubscribersSeeSameOrder(t *testing.T) {
	hub := NewHub(zap.NewNop())
	_, first := hub.Subscribe()
	_, second := hub.Subscribe()

	sequence := []models.SlotStatus{
		models.SlotReserved,
		models.SlotBooked,
		models.SlotAvailable,
	}
	for _, status := range sequence {
		hub.Publish(slotUpdate(status))
	}

	for name, ch := range map[string]<-chan []byte{"first": first, "second": second} {
		events := drain(t, ch, len(sequence))
		for i, status := range sequence {
			if events[i].Type != models.SlotUpdateType {
				t.Fatalf("%s subscriber: event %d has type %q", name, i, events[i].Type)
			}
			if events[i].Slot.Status != status {
				t.Fatalf("%s subscriber: event %d is %s, want %s", name, i, events[i].Slot.Status, status)
			}
		}
	}
}

func TestHubNoReplayForLateSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	hub.Publish(slotUpdate(models.SlotReserved))

	_, late := hub.Subscribe()
	select {
	case payload := <-late:
		t.Fatalf("late subscriber must not see history, got %s", payload)
	default:
	}

	hub.Publish(slotUpdate(models.SlotBooked))
	events := drain(t, late, 1)
	if events[0].Slot.Status != models.SlotBooked {
		t.Fatalf("expected only the post-join event, got %s", events[0].Slot.Status)
	}
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	_, slow := hub.Subscribe()
	_, healthy := hub.Subscribe()

	// Never read from slow: once its buffer fills, the hub must drop it
	// without blocking delivery to the healthy subscriber, which keeps up.
	total := defaultSendBuffer + 3
	for i := 0; i < total; i++ {
		hub.Publish(slotUpdate(models.SlotReserved))
		drain(t, healthy, 1)
	}

	if got := hub.Count(); got != 1 {
		t.Fatalf("expected slow subscriber dropped, count = %d", got)
	}

	// The dropped subscriber's channel ends with a close, not a stall.
	for i := 0; i < defaultSendBuffer; i++ {
		<-slow
	}
	if _, ok := <-slow; ok {
		t.Fatalf("expected closed channel for dropped subscriber")
	}
}

func TestHubUnsubscribeIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	id, ch := hub.Subscribe()

	hub.Unsubscribe(id)
	hub.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after unsubscribe")
	}
	if got := hub.Count(); got != 0 {
		t.Fatalf("expected empty hub, count = %d", got)
	}

	// Publishing into an empty hub is a no-op.
	hub.Publish(slotUpdate(models.SlotAvailable))
}
