package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("store: not found")

// Booking is a storefront booking as persisted, linked to the supplier
// confirmation and, once payment starts, to a gateway order.
type Booking struct {
	Reference   string
	SupplierRef string
	CityID      int
	HotelID     int
	HotelName   string
	CheckIn     string
	CheckOut    string
	GuestName   string
	GuestEmail  string
	Status      string
	Amount      float64
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Payment struct {
	OrderID    string
	BookingRef string
	Status     string
	Amount     int64
	Currency   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingPaid      = "paid"
	BookingCancelled = "cancelled"

	PaymentInitiated = "initiated"
	PaymentPaid      = "paid"
	PaymentDeclined  = "declined"
	PaymentReversed  = "reversed"
)

// Store persists bookings and payments in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// modernc's driver takes pragmas in _pragma=name(value) form and
	// applies them on every pooled connection.
	connStr := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bookings (
			reference    TEXT PRIMARY KEY,
			supplier_ref TEXT NOT NULL DEFAULT '',
			city_id      INTEGER NOT NULL,
			hotel_id     INTEGER NOT NULL,
			hotel_name   TEXT NOT NULL DEFAULT '',
			check_in     TEXT NOT NULL,
			check_out    TEXT NOT NULL,
			guest_name   TEXT NOT NULL,
			guest_email  TEXT NOT NULL,
			status       TEXT NOT NULL,
			amount       REAL NOT NULL DEFAULT 0,
			currency     TEXT NOT NULL DEFAULT 'TND',
			created_at   TIMESTAMP NOT NULL,
			updated_at   TIMESTAMP NOT NULL
		);

		CREATE TABLE IF NOT EXISTS payments (
			order_id    TEXT PRIMARY KEY,
			booking_ref TEXT NOT NULL REFERENCES bookings(reference),
			status      TEXT NOT NULL,
			amount      INTEGER NOT NULL,
			currency    TEXT NOT NULL DEFAULT 'TND',
			created_at  TIMESTAMP NOT NULL,
			updated_at  TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_payments_booking ON payments(booking_ref);
	`)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateBooking(ctx context.Context, b *Booking) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Status == "" {
		b.Status = BookingPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (reference, supplier_ref, city_id, hotel_id, hotel_name,
			check_in, check_out, guest_name, guest_email, status, amount, currency,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.SupplierRef, b.CityID, b.HotelID, b.HotelName,
		b.CheckIn, b.CheckOut, b.GuestName, b.GuestEmail, b.Status, b.Amount, b.Currency,
		b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (s *Store) GetBooking(ctx context.Context, reference string) (*Booking, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT reference, supplier_ref, city_id, hotel_id, hotel_name,
			check_in, check_out, guest_name, guest_email, status, amount, currency,
			created_at, updated_at
		FROM bookings WHERE reference = ?`, reference)

	var b Booking
	err := row.Scan(&b.Reference, &b.SupplierRef, &b.CityID, &b.HotelID, &b.HotelName,
		&b.CheckIn, &b.CheckOut, &b.GuestName, &b.GuestEmail, &b.Status, &b.Amount, &b.Currency,
		&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read booking: %w", err)
	}
	return &b, nil
}

func (s *Store) UpdateBookingStatus(ctx context.Context, reference, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings SET status = ?, updated_at = ? WHERE reference = ?`,
		status, time.Now().UTC(), reference)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreatePayment(ctx context.Context, p *Payment) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = PaymentInitiated
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (order_id, booking_ref, status, amount, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.OrderID, p.BookingRef, p.Status, p.Amount, p.Currency, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

func (s *Store) GetPaymentByOrderID(ctx context.Context, orderID string) (*Payment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT order_id, booking_ref, status, amount, currency, created_at, updated_at
		FROM payments WHERE order_id = ?`, orderID)

	var p Payment
	err := row.Scan(&p.OrderID, &p.BookingRef, &p.Status, &p.Amount, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payment: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, orderID, status string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE payments SET status = ?, updated_at = ? WHERE order_id = ?`,
		status, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
