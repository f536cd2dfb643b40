package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/clictopay"
	"github.com/ziedsaddem/hotelbooking/internal/models"
	"github.com/ziedsaddem/hotelbooking/internal/mygo"
	"github.com/ziedsaddem/hotelbooking/internal/store"
)

type mockBookingSupplier struct {
	searchErr     error
	bookingErr    error
	selection     *mygo.BookingSelection
	askedHotelIDs []int
}

func (m *mockBookingSupplier) SearchAvailability(ctx context.Context, raw mygo.RawSearchParams, hotelIDs []int) (*mygo.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	m.askedHotelIDs = hotelIDs
	return &mygo.SearchResult{Hotels: []mygo.Hotel{{ID: 12, Name: "Laico"}}}, nil
}

func (m *mockBookingSupplier) CreateBooking(ctx context.Context, result *mygo.SearchResult, sel mygo.BookingSelection) (*mygo.BookingConfirmation, error) {
	if m.bookingErr != nil {
		return nil, m.bookingErr
	}
	m.selection = &sel
	return &mygo.BookingConfirmation{
		SupplierRef: "MG-9001",
		Status:      "confirmed",
		Amount:      480.500,
		Currency:    "TND",
	}, nil
}

type mockGateway struct {
	err       error
	lastOrder *clictopay.Order
}

func (m *mockGateway) RegisterOrder(ctx context.Context, order clictopay.Order) (*clictopay.RegisteredOrder, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastOrder = &order
	return &clictopay.RegisteredOrder{OrderID: "ctp-42", PaymentURL: "https://test.clictopay.com/pay/ctp-42"}, nil
}

type memoryBookingStore struct {
	bookings      map[string]*store.Booking
	payments      map[string]*store.Payment
	paymentinsErr error
}

func newMemoryBookingStore() *memoryBookingStore {
	return &memoryBookingStore{
		bookings: make(map[string]*store.Booking),
		payments: make(map[string]*store.Payment),
	}
}

func (m *memoryBookingStore) CreateBooking(ctx context.Context, b *store.Booking) error {
	m.bookings[b.Reference] = b
	return nil
}

func (m *memoryBookingStore) GetBooking(ctx context.Context, reference string) (*store.Booking, error) {
	b, ok := m.bookings[reference]
	if !ok {
		return nil, store.ErrNotFound
	}
	return b, nil
}

func (m *memoryBookingStore) CreatePayment(ctx context.Context, p *store.Payment) error {
	if m.paymentinsErr != nil {
		return m.paymentinsErr
	}
	m.payments[p.OrderID] = p
	return nil
}

const validBookingBody = `{
	"search":{"cityId":5,"checkIn":"2026-09-10","checkOut":"2026-09-14","rooms":[{"adults":2}]},
	"hotelId":12,"roomIds":[3],"guestName":"Amel Ben Salah","guestEmail":"amel@example.tn"
}`

func doCreateBooking(t *testing.T, h *BookingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Create(e.NewContext(req, rec)))
	return rec
}

func TestBookingCreateSuccess(t *testing.T) {
	supplier := &mockBookingSupplier{}
	gateway := &mockGateway{}
	st := newMemoryBookingStore()
	h := NewBookingHandler(supplier, gateway, st, "https://booking.example.tn/return", nil)

	rec := doCreateBooking(t, h, validBookingBody)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Reference, "BK-"))
	assert.Equal(t, "MG-9001", resp.SupplierRef)
	assert.Equal(t, store.BookingConfirmed, resp.Status)
	assert.Equal(t, "TND 480.500", resp.AmountFormatted)
	assert.Equal(t, "https://test.clictopay.com/pay/ctp-42", resp.PaymentURL)

	require.NotNil(t, supplier.selection)
	assert.Equal(t, "Amel Ben Salah", supplier.selection.GuestName)
	assert.Equal(t, []int{12}, supplier.askedHotelIDs, "availability is narrowed to the requested hotel")

	require.NotNil(t, gateway.lastOrder)
	assert.Equal(t, int64(480500), gateway.lastOrder.Amount, "TND amounts are sent in millimes")
	assert.Equal(t, resp.Reference, gateway.lastOrder.Reference)

	stored, err := st.GetBooking(context.Background(), resp.Reference)
	require.NoError(t, err)
	assert.Equal(t, "MG-9001", stored.SupplierRef)
	require.Contains(t, st.payments, "ctp-42")
	assert.Equal(t, resp.Reference, st.payments["ctp-42"].BookingRef)
}

func TestBookingCreateSurvivesGatewayFailure(t *testing.T) {
	supplier := &mockBookingSupplier{}
	gateway := &mockGateway{err: apperr.NewExternalService("clictopay", "upstream returned status 503", nil)}
	st := newMemoryBookingStore()
	h := NewBookingHandler(supplier, gateway, st, "https://booking.example.tn/return", nil)

	rec := doCreateBooking(t, h, validBookingBody)
	assert.Equal(t, http.StatusCreated, rec.Code, "the booking stands even when payment registration fails")

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.PaymentURL)

	_, err := st.GetBooking(context.Background(), resp.Reference)
	assert.NoError(t, err)
	assert.Empty(t, st.payments)
}

func TestBookingCreateWithholdsUnreconcilablePaymentURL(t *testing.T) {
	supplier := &mockBookingSupplier{}
	gateway := &mockGateway{}
	st := newMemoryBookingStore()
	st.paymentinsErr = errors.New("database is locked")
	h := NewBookingHandler(supplier, gateway, st, "https://booking.example.tn/return", nil)

	rec := doCreateBooking(t, h, validBookingBody)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.PaymentURL, "a payment URL with no persisted row can never be reconciled")

	_, err := st.GetBooking(context.Background(), resp.Reference)
	assert.NoError(t, err)
}

func TestBookingCreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing guest name", `{"search":{"cityId":5,"checkIn":"2026-09-10","checkOut":"2026-09-14","rooms":[{"adults":2}]},"hotelId":12,"guestEmail":"a@b.tn"}`},
		{"bad email", `{"search":{"cityId":5,"checkIn":"2026-09-10","checkOut":"2026-09-14","rooms":[{"adults":2}]},"hotelId":12,"guestName":"A","guestEmail":"not-an-email"}`},
		{"missing hotel", `{"search":{"cityId":5,"checkIn":"2026-09-10","checkOut":"2026-09-14","rooms":[{"adults":2}]},"guestName":"A","guestEmail":"a@b.tn"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBookingHandler(&mockBookingSupplier{}, &mockGateway{}, newMemoryBookingStore(), "", nil)
			rec := doCreateBooking(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestBookingCreateSupplierFailure(t *testing.T) {
	supplier := &mockBookingSupplier{bookingErr: apperr.NewExternalService("mygo", "upstream returned status 502", nil)}
	st := newMemoryBookingStore()
	h := NewBookingHandler(supplier, &mockGateway{}, st, "", nil)

	rec := doCreateBooking(t, h, validBookingBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, st.bookings, "nothing is persisted when the supplier rejects the booking")
}

func TestBookingGet(t *testing.T) {
	st := newMemoryBookingStore()
	st.bookings["BK-abc"] = &store.Booking{
		Reference: "BK-abc",
		Status:    store.BookingPaid,
		Amount:    120,
		Currency:  "EUR",
	}
	h := NewBookingHandler(&mockBookingSupplier{}, &mockGateway{}, st, "", nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/bookings/:ref")
	c.SetParamNames("ref")
	c.SetParamValues("BK-abc")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.BookingPaid, resp.Status)
	assert.Equal(t, "EUR 120.00", resp.AmountFormatted)
}

func TestBookingGetNotFound(t *testing.T) {
	h := NewBookingHandler(&mockBookingSupplier{}, &mockGateway{}, newMemoryBookingStore(), "", nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/v1/bookings/:ref")
	c.SetParamNames("ref")
	c.SetParamValues("BK-missing")
	require.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(480500), toMinorUnits(480.5, "TND"))
	assert.Equal(t, int64(12000), toMinorUnits(120, "EUR"))
	assert.Equal(t, int64(999), toMinorUnits(9.99, "USD"))
}
