package models

// SlotUpdateType is the single broadcast message type understood by
// dashboard and gate terminal subscribers.
const SlotUpdateType = "slot_update"

// SlotUpdate is the message fanned out to subscribers whenever a
// committed state change flips a slot's status.
type SlotUpdate struct {
	Type string `json:"type"`
	Slot Slot   `json:"slot"`
}

// NewSlotUpdate wraps a committed slot state in the wire envelope.
func NewSlotUpdate(slot Slot) SlotUpdate {
	return SlotUpdate{Type: SlotUpdateType, Slot: slot}
}
