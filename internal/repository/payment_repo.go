package repository

import (
	"context"
	"database/sql"

	"smartparking/internal/models"
)

// PaymentRepository persists payment records. A booking owns at most one.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository returns repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreatePending records a payment when an online payment flow starts,
// keyed by the provider-issued order reference.
func (r *PaymentRepository) CreatePending(ctx context.Context, bookingID int64, amount float64, providerOrderRef string) (*models.Payment, error) {
	payment := &models.Payment{
		BookingID:     bookingID,
		Amount:        amount,
		Status:        models.PaymentPending,
		PaymentMethod: models.PaymentMethodOnline,
		ProviderRef:   providerOrderRef,
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (booking_id, amount, status, payment_method, provider_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`, payment.BookingID, payment.Amount, payment.Status, payment.PaymentMethod, payment.ProviderRef).
		Scan(&payment.ID, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// Resolve updates the payment matched by its provider order reference,
// overwriting the stored reference with the final payment reference. The
// booking and slot are deliberately untouched.
func (r *PaymentRepository) Resolve(ctx context.Context, providerOrderRef, providerPaymentRef string, status models.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $2, provider_ref = $3, updated_at = NOW()
		WHERE provider_ref = $1
	`, providerOrderRef, status, providerPaymentRef)
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
}

// ListByUser returns payments attached to the user's bookings, newest first.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.booking_id, p.amount, p.status, p.payment_method, p.provider_ref, p.created_at, p.updated_at
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE b.user_id = $1
		ORDER BY p.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var ref sql.NullString
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Amount, &p.Status, &p.PaymentMethod, &ref, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.ProviderRef = ref.String
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
