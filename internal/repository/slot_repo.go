package repository

import (
	"context"
	"database/sql"
	"errors"

	"smartparking/internal/models"
)

// SlotRepository handles slot administration and read paths. Status flips
// driven by bookings go through BookingRepository, not here.
type SlotRepository struct {
	db *sql.DB
}

// NewSlotRepository returns repository.
func NewSlotRepository(db *sql.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// Create inserts a new slot with a unique number.
func (r *SlotRepository) Create(ctx context.Context, slot *models.Slot) (*models.Slot, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO slots (slot_number, vehicle_type, status, price_per_hour)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, slot.SlotNumber, slot.VehicleType, slot.Status, slot.PricePerHour).Scan(&slot.ID)
	if isUniqueViolation(err) {
		return nil, ErrSlotNumberTaken
	}
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// Get returns one slot by id.
func (r *SlotRepository) Get(ctx context.Context, slotID int64) (*models.Slot, error) {
	var slot models.Slot
	err := r.db.QueryRowContext(ctx, `
		SELECT id, slot_number, vehicle_type, status, price_per_hour
		FROM slots
		WHERE id = $1
	`, slotID).Scan(&slot.ID, &slot.SlotNumber, &slot.VehicleType, &slot.Status, &slot.PricePerHour)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// List returns all slots ordered by number.
func (r *SlotRepository) List(ctx context.Context) ([]models.Slot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slot_number, vehicle_type, status, price_per_hour
		FROM slots
		ORDER BY slot_number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.Slot
	for rows.Next() {
		var slot models.Slot
		if err := rows.Scan(&slot.ID, &slot.SlotNumber, &slot.VehicleType, &slot.Status, &slot.PricePerHour); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// Update applies an administrative edit, including manual status overrides
// such as taking a slot into maintenance.
func (r *SlotRepository) Update(ctx context.Context, slot *models.Slot) (*models.Slot, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE slots
		SET slot_number = $2, vehicle_type = $3, status = $4, price_per_hour = $5
		WHERE id = $1
	`, slot.ID, slot.SlotNumber, slot.VehicleType, slot.Status, slot.PricePerHour)
	if isUniqueViolation(err) {
		return nil, ErrSlotNumberTaken
	}
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return slot, nil
}

// Delete removes a slot unless a non-terminal booking still references it.
func (r *SlotRepository) Delete(ctx context.Context, slotID int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var blocking int64
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM bookings
			WHERE slot_id = $1 AND status IN ('upcoming', 'active')
		`, slotID).Scan(&blocking)
		if err != nil {
			return err
		}
		if blocking > 0 {
			return ErrSlotInUse
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE id = $1`, slotID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Stats aggregates dashboard counters.
func (r *SlotRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM slots),
			(SELECT COUNT(*) FROM slots WHERE status = 'available'),
			(SELECT COUNT(*) FROM slots WHERE status IN ('booked', 'reserved')),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM bookings)
	`).Scan(
		&stats.TotalSlots,
		&stats.AvailableSlots,
		&stats.BookedSlots,
		&stats.TotalUsers,
		&stats.TotalBookings,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
