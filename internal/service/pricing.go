package service

import (
	"math"

	"smartparking/internal/models"
)

// Price computes the booking total as whole hours (rounded up, minimum
// one) times the slot's hourly rate. It is always derived from the
// authoritative window, never from client-supplied totals.
func Price(pricePerHour float64, window models.Window) float64 {
	hours := math.Ceil(window.Duration().Seconds() / 3600)
	if hours < 1 {
		hours = 1
	}
	return hours * pricePerHour
}
