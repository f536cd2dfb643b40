package handler

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/clictopay"
	"github.com/ziedsaddem/hotelbooking/internal/models"
	"github.com/ziedsaddem/hotelbooking/internal/mygo"
	"github.com/ziedsaddem/hotelbooking/internal/obs"
	"github.com/ziedsaddem/hotelbooking/internal/store"
	"github.com/ziedsaddem/hotelbooking/pkg/currency"
)

// BookingSupplier is the slice of the MyGO facade the booking flow needs:
// a fresh availability check, then a booking chained onto its session.
type BookingSupplier interface {
	SearchAvailability(ctx context.Context, raw mygo.RawSearchParams, hotelIDs []int) (*mygo.SearchResult, error)
	CreateBooking(ctx context.Context, result *mygo.SearchResult, sel mygo.BookingSelection) (*mygo.BookingConfirmation, error)
}

// PaymentGateway is the slice of the ClicToPay client the booking flow needs.
type PaymentGateway interface {
	RegisterOrder(ctx context.Context, order clictopay.Order) (*clictopay.RegisteredOrder, error)
}

type BookingStore interface {
	CreateBooking(ctx context.Context, b *store.Booking) error
	GetBooking(ctx context.Context, reference string) (*store.Booking, error)
	CreatePayment(ctx context.Context, p *store.Payment) error
}

type BookingHandler struct {
	supplier  BookingSupplier
	gateway   PaymentGateway
	store     BookingStore
	returnURL string
	metrics   *obs.Metrics
}

func NewBookingHandler(supplier BookingSupplier, gateway PaymentGateway, st BookingStore, returnURL string, m *obs.Metrics) *BookingHandler {
	return &BookingHandler{
		supplier:  supplier,
		gateway:   gateway,
		store:     st,
		returnURL: returnURL,
		metrics:   m,
	}
}

// Create books a hotel and opens a payment order. The supplier session is
// established and consumed entirely server-side within this call.
func (h *BookingHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.BookingRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.NewValidation("failed to parse request body: "+err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	searchResult, err := h.supplier.SearchAvailability(ctx, req.Search, []int{req.HotelID})
	if err != nil {
		return writeError(c, err)
	}

	conf, err := h.supplier.CreateBooking(ctx, searchResult, mygo.BookingSelection{
		HotelID:    req.HotelID,
		RoomIDs:    req.RoomIDs,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
	})
	if err != nil {
		return writeError(c, err)
	}

	reference := "BK-" + uuid.NewString()
	booking := &store.Booking{
		Reference:   reference,
		SupplierRef: conf.SupplierRef,
		CityID:      int(req.Search.CityID),
		HotelID:     req.HotelID,
		CheckIn:     req.Search.CheckIn,
		CheckOut:    req.Search.CheckOut,
		GuestName:   req.GuestName,
		GuestEmail:  req.GuestEmail,
		Status:      store.BookingConfirmed,
		Amount:      conf.Amount,
		Currency:    conf.Currency,
	}
	if err := h.store.CreateBooking(ctx, booking); err != nil {
		log.Printf("booking: failed to persist %s: %v", reference, err)
		return writeError(c, apperr.NewExternalService("store", "failed to persist booking", err))
	}
	if h.metrics != nil {
		h.metrics.IncBooking(store.BookingConfirmed)
	}

	order, err := h.gateway.RegisterOrder(ctx, clictopay.Order{
		Reference:   reference,
		Amount:      toMinorUnits(conf.Amount, conf.Currency),
		Currency:    conf.Currency,
		ReturnURL:   h.returnURL,
		Description: "Hotel booking " + reference,
	})
	if err != nil {
		// The booking exists; the storefront can retry payment later.
		log.Printf("booking: payment registration failed for %s: %v", reference, err)
		return c.JSON(http.StatusCreated, bookingResponse(booking, ""))
	}

	if err := h.store.CreatePayment(ctx, &store.Payment{
		OrderID:    order.OrderID,
		BookingRef: reference,
		Amount:     toMinorUnits(conf.Amount, conf.Currency),
		Currency:   conf.Currency,
	}); err != nil {
		// Without the payment row the later webhook for this order cannot
		// be reconciled, so the URL must not go out. The booking stands
		// and the storefront can restart payment.
		log.Printf("booking: failed to persist payment %s: %v", order.OrderID, err)
		return c.JSON(http.StatusCreated, bookingResponse(booking, ""))
	}

	return c.JSON(http.StatusCreated, bookingResponse(booking, order.PaymentURL))
}

func (h *BookingHandler) Get(c echo.Context) error {
	booking, err := h.store.GetBooking(c.Request().Context(), c.Param("ref"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "booking not found",
			Code:    http.StatusNotFound,
		})
	}
	if err != nil {
		return writeError(c, apperr.NewExternalService("store", "failed to read booking", err))
	}
	return c.JSON(http.StatusOK, bookingResponse(booking, ""))
}

func bookingResponse(b *store.Booking, paymentURL string) models.BookingResponse {
	return models.BookingResponse{
		Reference:       b.Reference,
		SupplierRef:     b.SupplierRef,
		Status:          b.Status,
		HotelID:         b.HotelID,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Amount:          b.Amount,
		AmountFormatted: currency.Format(b.Amount, b.Currency),
		Currency:        b.Currency,
		PaymentURL:      paymentURL,
	}
}

// toMinorUnits converts a display amount to the gateway's minor units:
// millimes for TND, cents for everything else.
func toMinorUnits(amount float64, code string) int64 {
	factor := 100.0
	if code == "TND" {
		factor = 1000.0
	}
	return int64(math.Round(amount * factor))
}
