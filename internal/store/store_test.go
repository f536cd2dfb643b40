package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var journalMode string
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", strings.ToLower(journalMode))

	var foreignKeys int
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, s.db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)
}

func TestCreatePaymentRequiresBooking(t *testing.T) {
	s := testStore(t)

	err := s.CreatePayment(context.Background(), &Payment{
		OrderID:    "CTP-orphan",
		BookingRef: "BK-missing",
		Amount:     1000,
		Currency:   "TND",
	})
	assert.Error(t, err, "a payment must reference an existing booking")
}

func TestBookingLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	booking := &Booking{
		Reference:  "BK-1",
		CityID:     5,
		HotelID:    101,
		HotelName:  "Dar El Medina",
		CheckIn:    "2026-09-10",
		CheckOut:   "2026-09-14",
		GuestName:  "Amine Trabelsi",
		GuestEmail: "amine@example.tn",
		Amount:     420.5,
		Currency:   "TND",
	}
	require.NoError(t, s.CreateBooking(ctx, booking))

	got, err := s.GetBooking(ctx, "BK-1")
	require.NoError(t, err)
	assert.Equal(t, BookingPending, got.Status)
	assert.Equal(t, "Dar El Medina", got.HotelName)
	assert.Equal(t, 420.5, got.Amount)

	require.NoError(t, s.UpdateBookingStatus(ctx, "BK-1", BookingConfirmed))
	got, err = s.GetBooking(ctx, "BK-1")
	require.NoError(t, err)
	assert.Equal(t, BookingConfirmed, got.Status)

	_, err = s.GetBooking(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.UpdateBookingStatus(ctx, "missing", BookingPaid), ErrNotFound)
}

func TestPaymentLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateBooking(ctx, &Booking{
		Reference: "BK-2", CityID: 1, HotelID: 2,
		CheckIn: "2026-09-10", CheckOut: "2026-09-11",
		GuestName: "A", GuestEmail: "a@b.c",
	}))

	require.NoError(t, s.CreatePayment(ctx, &Payment{
		OrderID:    "CTP-2",
		BookingRef: "BK-2",
		Amount:     420500,
		Currency:   "TND",
	}))

	p, err := s.GetPaymentByOrderID(ctx, "CTP-2")
	require.NoError(t, err)
	assert.Equal(t, PaymentInitiated, p.Status)
	assert.Equal(t, "BK-2", p.BookingRef)

	require.NoError(t, s.UpdatePaymentStatus(ctx, "CTP-2", PaymentPaid))
	p, err = s.GetPaymentByOrderID(ctx, "CTP-2")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, p.Status)

	_, err = s.GetPaymentByOrderID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
