package repository

import (
	"context"
	"database/sql"

	"smartparking/internal/models"
)

// GateLogRepository reads the append-only gate audit trail. Writes happen
// inside BookingRepository.Transition so a log entry commits with the
// transition it records, or not at all.
type GateLogRepository struct {
	db *sql.DB
}

// NewGateLogRepository returns repository.
func NewGateLogRepository(db *sql.DB) *GateLogRepository {
	return &GateLogRepository{db: db}
}

// List returns gate logs with the acting staff member, newest first.
func (r *GateLogRepository) List(ctx context.Context, limit int) ([]models.GateLogDetail, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT g.id, g.timestamp, g.staff_id, g.booking_id, g.action, g.vehicle_plate, u.email
		FROM gate_logs g
		JOIN users u ON u.id = g.staff_id
		ORDER BY g.timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.GateLogDetail
	for rows.Next() {
		var entry models.GateLogDetail
		if err := rows.Scan(
			&entry.ID,
			&entry.Timestamp,
			&entry.StaffID,
			&entry.BookingID,
			&entry.Action,
			&entry.VehiclePlate,
			&entry.Staff.Email,
		); err != nil {
			return nil, err
		}
		entry.Staff.ID = entry.StaffID
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
