package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"smartparking/internal/models"
	"smartparking/internal/repository"
)

type fakePaymentStore struct {
	mu       sync.Mutex
	nextID   int64
	payments map[string]*models.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *fakePaymentStore) CreatePending(_ context.Context, bookingID int64, amount float64, providerOrderRef string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	payment := &models.Payment{
		ID:            s.nextID,
		BookingID:     bookingID,
		Amount:        amount,
		ProviderRef:   providerOrderRef,
		PaymentMethod: models.PaymentMethodOnline,
		Status:        models.PaymentPending,
	}
	s.payments[providerOrderRef] = payment
	return payment, nil
}

func (s *fakePaymentStore) Resolve(_ context.Context, providerOrderRef, providerPaymentRef string, status models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payment, ok := s.payments[providerOrderRef]
	if !ok {
		return repository.ErrNotFound
	}
	payment.Status = status
	payment.ProviderRef = providerPaymentRef
	return nil
}

func (s *fakePaymentStore) ListByUser(context.Context, int64) ([]models.Payment, error) {
	return nil, nil
}

func (s *fakePaymentStore) byOrderRef(ref string) *models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[ref]
}

type fakeProvider struct {
	orders int
	fail   bool
}

func (p *fakeProvider) CreateOrder(_ context.Context, amountMinor int64, currency, _ string) (ProviderOrder, error) {
	if p.fail {
		return ProviderOrder{}, errors.New("provider unavailable")
	}
	p.orders++
	return ProviderOrder{
		Ref:         fmt.Sprintf("order_%d", p.orders),
		AmountMinor: amountMinor,
		Currency:    currency,
	}, nil
}

func newTestPaymentService(ledger *fakeLedger, store *fakePaymentStore, provider *fakeProvider) *PaymentService {
	return NewPaymentService(ledger, ledger, store, provider, zap.NewNop())
}

func TestCreateOrderPricesBooking(t *testing.T) {
	ledger := newFakeLedger(testSlot())
	bookings := newTestBookingService(ledger, &fakeHub{})
	store := newFakePaymentStore()
	svc := newTestPaymentService(ledger, store, &fakeProvider{})
	ctx := context.Background()

	// 2.5 hours at 5.0/hour rounds up to 3 hours.
	booking, err := bookings.CreateBooking(ctx, 1, CreateBookingInput{
		SlotID: 1, VehicleID: 1,
		Window: models.Window{Start: at(10), End: at(12).Add(30 * time.Minute)},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	order, err := svc.CreateOrder(ctx, 1, booking.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Amount != 15.0 {
		t.Fatalf("expected amount 15.0, got %v", order.Amount)
	}
	if order.AmountMinor != 1500 || order.Currency != "INR" {
		t.Fatalf("unexpected order: %+v", order)
	}

	payment := store.byOrderRef(order.OrderRef)
	if payment == nil {
		t.Fatalf("pending payment not recorded for %s", order.OrderRef)
	}
	if payment.Status != models.PaymentPending || payment.BookingID != booking.ID {
		t.Fatalf("unexpected pending payment: %+v", payment)
	}
}

func TestCreateOrderForeignBooking(t *testing.T) {
	ledger := newFakeLedger(testSlot())
	bookings := newTestBookingService(ledger, &fakeHub{})
	store := newFakePaymentStore()
	svc := newTestPaymentService(ledger, store, &fakeProvider{})
	ctx := context.Background()

	booking, err := bookings.CreateBooking(ctx, 1, CreateBookingInput{
		SlotID: 1, VehicleID: 1,
		Window: models.Window{Start: at(10), End: at(12)},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, err := svc.CreateOrder(ctx, 2, booking.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for foreign booking, got %v", err)
	}
}

func TestCreateOrderProviderFailure(t *testing.T) {
	ledger := newFakeLedger(testSlot())
	bookings := newTestBookingService(ledger, &fakeHub{})
	store := newFakePaymentStore()
	svc := newTestPaymentService(ledger, store, &fakeProvider{fail: true})
	ctx := context.Background()

	booking, err := bookings.CreateBooking(ctx, 1, CreateBookingInput{
		SlotID: 1, VehicleID: 1,
		Window: models.Window{Start: at(10), End: at(12)},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	if _, err := svc.CreateOrder(ctx, 1, booking.ID); err == nil {
		t.Fatalf("expected provider failure to surface")
	}
	if len(store.payments) != 0 {
		t.Fatalf("failed order must not record a payment")
	}
}

func TestConfirmResolvesPayment(t *testing.T) {
	ledger := newFakeLedger(testSlot())
	bookings := newTestBookingService(ledger, &fakeHub{})
	store := newFakePaymentStore()
	svc := newTestPaymentService(ledger, store, &fakeProvider{})
	ctx := context.Background()

	booking, err := bookings.CreateBooking(ctx, 1, CreateBookingInput{
		SlotID: 1, VehicleID: 1,
		Window: models.Window{Start: at(10), End: at(12)},
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	order, err := svc.CreateOrder(ctx, 1, booking.ID)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if err := svc.Confirm(ctx, order.OrderRef, "pay_abc", OutcomeCompleted); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	payment := store.byOrderRef(order.OrderRef)
	if payment.Status != models.PaymentCompleted {
		t.Fatalf("expected completed payment, got %s", payment.Status)
	}
	if payment.ProviderRef != "pay_abc" {
		t.Fatalf("expected payment reference overwritten, got %s", payment.ProviderRef)
	}

	// A failed payment leaves booking and slot state untouched.
	if booking.Status != models.BookingUpcoming {
		t.Fatalf("payment flow must not mutate booking, got %s", booking.Status)
	}
}

func TestConfirmUnknownOrderRef(t *testing.T) {
	ledger := newFakeLedger(testSlot())
	store := newFakePaymentStore()
	svc := newTestPaymentService(ledger, store, &fakeProvider{})

	err := svc.Confirm(context.Background(), "order_unknown", "pay_abc", OutcomeCompleted)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for unknown order, got %v", err)
	}
}

func TestConfirmRejectsUnknownOutcome(t *testing.T) {
	ledger := newFakeLedger(testSlot())
	store := newFakePaymentStore()
	svc := newTestPaymentService(ledger, store, &fakeProvider{})

	err := svc.Confirm(context.Background(), "order_1", "pay_abc", "maybe")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
