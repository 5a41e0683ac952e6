package models

import "time"

// Slot represents a physical parking slot.
type Slot struct {
	ID           int64      `db:"id" json:"id"`
	SlotNumber   string     `db:"slot_number" json:"slot_number"`
	VehicleType  string     `db:"vehicle_type" json:"vehicle_type"`
	Status       SlotStatus `db:"status" json:"status"`
	PricePerHour float64    `db:"price_per_hour" json:"price_per_hour"`
}

// Booking reserves one slot for one vehicle over [StartTime, EndTime).
type Booking struct {
	ID            int64         `db:"id" json:"id"`
	UserID        int64         `db:"user_id" json:"user_id"`
	SlotID        int64         `db:"slot_id" json:"slot_id"`
	VehicleID     int64         `db:"vehicle_id" json:"vehicle_id"`
	StartTime     time.Time     `db:"start_time" json:"start_time"`
	EndTime       time.Time     `db:"end_time" json:"end_time"`
	BookingCode   string        `db:"booking_code" json:"booking_code"`
	QRCodeRef     string        `db:"qr_code_ref" json:"qr_code_ref,omitempty"`
	Status        BookingStatus `db:"status" json:"status"`
	PaymentMethod string        `db:"payment_method" json:"payment_method"`
	CheckInTime   *time.Time    `db:"check_in_time" json:"check_in_time,omitempty"`
	CheckOutTime  *time.Time    `db:"check_out_time" json:"check_out_time,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// Window returns the booking's reservation interval.
func (b Booking) Window() Window {
	return Window{Start: b.StartTime, End: b.EndTime}
}

// Payment is owned one-to-one by a booking.
type Payment struct {
	ID            int64         `db:"id" json:"id"`
	BookingID     int64         `db:"booking_id" json:"booking_id"`
	Amount        float64       `db:"amount" json:"amount"`
	Status        PaymentStatus `db:"status" json:"status"`
	PaymentMethod string        `db:"payment_method" json:"payment_method"`
	ProviderRef   string        `db:"provider_ref" json:"provider_ref,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// GateLog is an append-only audit record of a gate action.
type GateLog struct {
	ID           int64      `db:"id" json:"id"`
	Timestamp    time.Time  `db:"timestamp" json:"timestamp"`
	StaffID      int64      `db:"staff_id" json:"staff_id"`
	BookingID    int64      `db:"booking_id" json:"booking_id"`
	Action       GateAction `db:"action" json:"action"`
	VehiclePlate string     `db:"vehicle_plate" json:"vehicle_plate"`
}

// UserRef is the projection of a user referenced by bookings and logs.
type UserRef struct {
	ID    int64  `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
}

// SlotRef is the projection of a slot embedded in booking responses.
type SlotRef struct {
	ID         int64  `db:"id" json:"id"`
	SlotNumber string `db:"slot_number" json:"slot_number"`
}

// VehicleRef is the projection of a vehicle embedded in booking responses.
type VehicleRef struct {
	ID           int64  `db:"id" json:"id"`
	LicensePlate string `db:"license_plate" json:"license_plate"`
}

// BookingDetail is a booking joined with its user, slot and vehicle
// projections. Built by explicit SQL joins, never by traversing live
// object references.
type BookingDetail struct {
	Booking
	User    UserRef    `json:"user"`
	Slot    SlotRef    `json:"slot"`
	Vehicle VehicleRef `json:"vehicle"`
}

// GateLogDetail is a gate log entry joined with the acting staff member.
type GateLogDetail struct {
	GateLog
	Staff UserRef `json:"staff"`
}

// AdminStats aggregates dashboard counters.
type AdminStats struct {
	TotalSlots     int64 `json:"total_slots"`
	AvailableSlots int64 `json:"available_slots"`
	BookedSlots    int64 `json:"booked_slots"`
	TotalUsers     int64 `json:"total_users"`
	TotalBookings  int64 `json:"total_bookings"`
}
