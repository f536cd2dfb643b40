package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/clictopay"
	"github.com/ziedsaddem/hotelbooking/internal/obs"
	"github.com/ziedsaddem/hotelbooking/internal/store"
)

// SignatureHeader carries the gateway's HMAC over the webhook body.
const SignatureHeader = "X-Ctp-Signature"

type PaymentStore interface {
	GetPaymentByOrderID(ctx context.Context, orderID string) (*store.Payment, error)
	UpdatePaymentStatus(ctx context.Context, orderID, status string) error
	UpdateBookingStatus(ctx context.Context, reference, status string) error
}

type PaymentHandler struct {
	store   PaymentStore
	secret  string
	metrics *obs.Metrics
}

func NewPaymentHandler(st PaymentStore, secret string, m *obs.Metrics) *PaymentHandler {
	return &PaymentHandler{
		store:   st,
		secret:  secret,
		metrics: m,
	}
}

// Webhook handles ClicToPay payment notifications. The signature is checked
// over the raw body before any decoding; an unknown order is answered 200 so
// the gateway stops re-delivering it.
func (h *PaymentHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeError(c, apperr.NewValidation("failed to read webhook body"))
	}

	event, err := clictopay.ParseWebhook(body, c.Request().Header.Get(SignatureHeader), h.secret)
	if err != nil {
		if h.metrics != nil {
			h.metrics.IncWebhook("rejected")
		}
		return writeError(c, err)
	}

	payment, err := h.store.GetPaymentByOrderID(ctx, event.OrderID)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("payment: webhook for unknown order %s", event.OrderID)
		if h.metrics != nil {
			h.metrics.IncWebhook("unknown_order")
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}
	if err != nil {
		// A transient store failure must not be acknowledged, or the
		// gateway stops redelivering a valid event.
		return writeError(c, apperr.NewExternalService("store", "failed to read payment", err))
	}

	paymentStatus, bookingStatus := mapGatewayStatus(event.Status)
	if err := h.store.UpdatePaymentStatus(ctx, payment.OrderID, paymentStatus); err != nil {
		return writeError(c, apperr.NewExternalService("store", "failed to update payment", err))
	}
	if bookingStatus != "" {
		if err := h.store.UpdateBookingStatus(ctx, payment.BookingRef, bookingStatus); err != nil {
			log.Printf("payment: failed to update booking %s: %v", payment.BookingRef, err)
		}
	}

	if h.metrics != nil {
		h.metrics.IncWebhook("accepted")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func mapGatewayStatus(gatewayStatus string) (paymentStatus, bookingStatus string) {
	switch gatewayStatus {
	case clictopay.StatusPaid:
		return store.PaymentPaid, store.BookingPaid
	case clictopay.StatusDeclined:
		return store.PaymentDeclined, ""
	case clictopay.StatusReversed:
		return store.PaymentReversed, store.BookingCancelled
	default:
		return store.PaymentInitiated, ""
	}
}
