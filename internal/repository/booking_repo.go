package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smartparking/internal/models"
)

// Booking codes are derived from the committed row's identifier, so two
// bookings can never share one and generation cannot race with inserts.
const (
	bookingCodePrefix = "SPS"
	bookingCodeOffset = 1000
)

// BookingRepository is the authoritative ledger for bookings and the slot
// state they drive. Every mutation is a single atomic transaction.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ReserveInput describes a reservation attempt.
type ReserveInput struct {
	SlotID        int64
	UserID        int64
	VehicleID     int64
	Window        models.Window
	PaymentMethod string
}

// GateLogEntry is appended atomically with a gate transition.
type GateLogEntry struct {
	StaffID int64
	Action  models.GateAction
}

// TransitionInput describes a compare-and-swap booking transition.
type TransitionInput struct {
	BookingCode string
	Expected    models.BookingStatus
	Next        models.BookingStatus
	SlotNext    models.SlotStatus
	Log         *GateLogEntry
}

// BookingCode formats the human-readable code for a booking id.
func BookingCode(bookingID int64) string {
	return fmt.Sprintf("%s-%d", bookingCodePrefix, bookingID+bookingCodeOffset)
}

// TryReserve inserts a booking and flips the slot to reserved in one
// transaction. The overlap check runs inside the same transaction, under a
// row lock on the slot, so concurrent reservations for the same slot
// serialize and at most one wins. A failed attempt leaves no state behind.
func (r *BookingRepository) TryReserve(ctx context.Context, in ReserveInput) (*models.BookingDetail, *models.Slot, error) {
	var (
		detail models.BookingDetail
		slot   models.Slot
	)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Lock the slot row: single writer per slot for the duration of
		// check + insert.
		err := tx.QueryRowContext(ctx, `
			SELECT id, slot_number, vehicle_type, status, price_per_hour
			FROM slots
			WHERE id = $1
			FOR UPDATE
		`, in.SlotID).Scan(&slot.ID, &slot.SlotNumber, &slot.VehicleType, &slot.Status, &slot.PricePerHour)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if slot.Status == models.SlotMaintenance {
			return ErrConflict
		}

		// Re-validate under the lock: half-open overlap against bookings
		// that still block the slot.
		var overlapping int64
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM bookings
			WHERE slot_id = $1
			  AND status IN ('upcoming', 'active')
			  AND start_time < $3
			  AND end_time > $2
		`, in.SlotID, in.Window.Start, in.Window.End).Scan(&overlapping)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrConflict
		}

		var bookingID int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO bookings (user_id, slot_id, vehicle_id, start_time, end_time, status, payment_method, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'upcoming', $6, NOW(), NOW())
			RETURNING id
		`, in.UserID, in.SlotID, in.VehicleID, in.Window.Start, in.Window.End, in.PaymentMethod).Scan(&bookingID)
		if err != nil {
			return err
		}

		code := BookingCode(bookingID)
		qrRef := fmt.Sprintf("/static/qr_codes/%s.png", code)
		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings SET booking_code = $2, qr_code_ref = $3, updated_at = NOW() WHERE id = $1
		`, bookingID, code, qrRef); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE slots SET status = $2 WHERE id = $1
		`, in.SlotID, models.SlotReserved); err != nil {
			return err
		}
		slot.Status = models.SlotReserved

		d, err := bookingDetailByID(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		detail = *d
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &detail, &slot, nil
}

// Transition applies a compare-and-swap status change to the booking
// resolved by its code, updates the slot, stamps the gate timestamp and
// appends the gate log entry, all in one transaction. It fails with
// ErrStaleState when the booking's status no longer matches Expected at
// commit time.
func (r *BookingRepository) Transition(ctx context.Context, in TransitionInput) (*models.BookingDetail, *models.Slot, error) {
	var (
		detail models.BookingDetail
		slot   models.Slot
	)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var bookingID, slotID int64
		err := tx.QueryRowContext(ctx, `
			SELECT id, slot_id FROM bookings WHERE booking_code = $1
		`, in.BookingCode).Scan(&bookingID, &slotID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// Slot lock first, matching TryReserve's lock order.
		err = tx.QueryRowContext(ctx, `
			SELECT id, slot_number, vehicle_type, status, price_per_hour
			FROM slots
			WHERE id = $1
			FOR UPDATE
		`, slotID).Scan(&slot.ID, &slot.SlotNumber, &slot.VehicleType, &slot.Status, &slot.PricePerHour)
		if err != nil {
			return err
		}

		stamp := ""
		switch in.Next {
		case models.BookingActive:
			stamp = ", check_in_time = NOW()"
		case models.BookingCompleted:
			stamp = ", check_out_time = NOW()"
		}

		result, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE bookings SET status = $3, updated_at = NOW()%s
			WHERE id = $1 AND status = $2
		`, stamp), bookingID, in.Expected, in.Next)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			// The booking exists; its status raced past us.
			return ErrStaleState
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE slots SET status = $2 WHERE id = $1
		`, slotID, in.SlotNext); err != nil {
			return err
		}
		slot.Status = in.SlotNext

		d, err := bookingDetailByID(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		detail = *d

		if in.Log != nil {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO gate_logs (staff_id, booking_id, action, vehicle_plate, timestamp)
				VALUES ($1, $2, $3, $4, NOW())
			`, in.Log.StaffID, bookingID, in.Log.Action, detail.Vehicle.LicensePlate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &detail, &slot, nil
}

// Cancel moves an upcoming booking owned by userID to cancelled and frees
// the slot, after an explicit re-check that no other blocking booking
// occupies the slot at the current moment.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID, userID int64) (*models.BookingDetail, *models.Slot, error) {
	var (
		detail models.BookingDetail
		slot   models.Slot
	)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var slotID int64
		var status models.BookingStatus
		err := tx.QueryRowContext(ctx, `
			SELECT slot_id, status FROM bookings WHERE id = $1 AND user_id = $2
		`, bookingID, userID).Scan(&slotID, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if status != models.BookingUpcoming {
			return ErrInvalidTransition
		}

		err = tx.QueryRowContext(ctx, `
			SELECT id, slot_number, vehicle_type, status, price_per_hour
			FROM slots
			WHERE id = $1
			FOR UPDATE
		`, slotID).Scan(&slot.ID, &slot.SlotNumber, &slot.VehicleType, &slot.Status, &slot.PricePerHour)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE bookings SET status = 'cancelled', updated_at = NOW()
			WHERE id = $1 AND status = 'upcoming'
		`, bookingID)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrStaleState
		}

		// Free the slot only if nothing else blocks it right now.
		var current int64
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM bookings
			WHERE slot_id = $1
			  AND id <> $2
			  AND status IN ('upcoming', 'active')
			  AND start_time <= NOW()
			  AND end_time > NOW()
		`, slotID, bookingID).Scan(&current)
		if err != nil {
			return err
		}
		if current == 0 && slot.Status != models.SlotMaintenance {
			if _, err := tx.ExecContext(ctx, `
				UPDATE slots SET status = $2 WHERE id = $1
			`, slotID, models.SlotAvailable); err != nil {
				return err
			}
			slot.Status = models.SlotAvailable
		}

		d, err := bookingDetailByID(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		detail = *d
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &detail, &slot, nil
}

// GetByCode resolves a human-readable booking code to the booking with
// its joined projections.
func (r *BookingRepository) GetByCode(ctx context.Context, bookingCode string) (*models.BookingDetail, error) {
	row := r.db.QueryRowContext(ctx, bookingDetailQuery+` WHERE b.booking_code = $1`, bookingCode)
	d, err := scanBookingDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID returns one booking with its joined projections.
func (r *BookingRepository) GetByID(ctx context.Context, bookingID int64) (*models.BookingDetail, error) {
	return bookingDetailByID(ctx, r.db, bookingID)
}

// ListByUser returns the user's bookings, most recent window first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, bookingDetailQuery+`
		WHERE b.user_id = $1
		ORDER BY b.start_time DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.BookingDetail
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

const bookingDetailQuery = `
	SELECT b.id, b.user_id, b.slot_id, b.vehicle_id, b.start_time, b.end_time,
	       b.booking_code, b.qr_code_ref, b.status, b.payment_method,
	       b.check_in_time, b.check_out_time, b.created_at, b.updated_at,
	       u.email, s.slot_number, v.license_plate
	FROM bookings b
	JOIN users u ON u.id = b.user_id
	JOIN slots s ON s.id = b.slot_id
	JOIN vehicles v ON v.id = b.vehicle_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func bookingDetailByID(ctx context.Context, q querier, bookingID int64) (*models.BookingDetail, error) {
	row := q.QueryRowContext(ctx, bookingDetailQuery+` WHERE b.id = $1`, bookingID)
	d, err := scanBookingDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func scanBookingDetail(row rowScanner) (*models.BookingDetail, error) {
	var (
		d        models.BookingDetail
		code     sql.NullString
		qrRef    sql.NullString
		checkIn  sql.NullTime
		checkOut sql.NullTime
	)
	if err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.SlotID,
		&d.VehicleID,
		&d.StartTime,
		&d.EndTime,
		&code,
		&qrRef,
		&d.Status,
		&d.PaymentMethod,
		&checkIn,
		&checkOut,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.User.Email,
		&d.Slot.SlotNumber,
		&d.Vehicle.LicensePlate,
	); err != nil {
		return nil, err
	}
	d.BookingCode = code.String
	d.QRCodeRef = qrRef.String
	if checkIn.Valid {
		t := checkIn.Time
		d.CheckInTime = &t
	}
	if checkOut.Valid {
		t := checkOut.Time
		d.CheckOutTime = &t
	}
	d.User.ID = d.UserID
	d.Slot.ID = d.SlotID
	d.Vehicle.ID = d.VehicleID
	return &d, nil
}
