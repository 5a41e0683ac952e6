package models

// SlotStatus is the closed set of states a parking slot can be in.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotReserved    SlotStatus = "reserved"
	SlotBooked      SlotStatus = "booked"
	SlotMaintenance SlotStatus = "maintenance"
)

// Valid reports whether the value is a known slot status.
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotAvailable, SlotReserved, SlotBooked, SlotMaintenance:
		return true
	}
	return false
}

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	BookingUpcoming  BookingStatus = "upcoming"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Valid reports whether the value is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingUpcoming, BookingActive, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status is immutable.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Blocking reports whether a booking in this status occupies its slot's
// time window for conflict purposes.
func (s BookingStatus) Blocking() bool {
	return s == BookingUpcoming || s == BookingActive
}

// PaymentStatus is the closed set of payment states.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// GateAction is the kind of gate event recorded in the audit log.
type GateAction string

const (
	GateCheckIn  GateAction = "check-in"
	GateCheckOut GateAction = "check-out"
)

// Payment methods accepted at booking time.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)
