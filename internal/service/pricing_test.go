package service

import (
	"testing"
	"time"

	"smartparking/internal/models"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		duration time.Duration
		want     float64
	}{
		{"exact hours", 5.0, 2 * time.Hour, 10.0},
		{"partial hour rounds up", 5.0, 2*time.Hour + 30*time.Minute, 15.0},
		{"one minute rounds up", 5.0, 2*time.Hour + time.Minute, 15.0},
		{"under an hour charges one", 5.0, 10 * time.Minute, 5.0},
		{"single hour", 7.5, time.Hour, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := models.Window{Start: at(10), End: at(10).Add(tt.duration)}
			if got := Price(tt.rate, window); got != tt.want {
				t.Fatalf("Price(%v, %v) = %v, want %v", tt.rate, tt.duration, got, tt.want)
			}
		})
	}
}
