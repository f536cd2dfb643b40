package clictopay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
)

const gatewayName = "clictopay"

// Client talks to the ClicToPay gateway. Payment registration is not
// idempotent, so unlike the supplier transport there is no retry loop:
// every call is a single bounded attempt with classified errors.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Order describes a payment to register. Amount is in millimes for TND,
// cents otherwise, following the gateway's minor-unit convention.
type Order struct {
	Reference   string
	Amount      int64
	Currency    string
	ReturnURL   string
	Description string
}

// RegisteredOrder is the gateway's acknowledgement.
type RegisteredOrder struct {
	OrderID    string `json:"orderId"`
	PaymentURL string `json:"formUrl"`
}

type OrderStatus struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Amount  int64  `json:"amount"`
}

func (c *Client) RegisterOrder(ctx context.Context, order Order) (*RegisteredOrder, error) {
	if order.Reference == "" {
		return nil, apperr.NewValidation("payment reference is required")
	}
	if order.Amount <= 0 {
		return nil, apperr.NewValidation("payment amount must be positive")
	}

	values := url.Values{}
	values.Set("userName", c.username)
	values.Set("password", c.password)
	values.Set("orderNumber", order.Reference)
	values.Set("amount", strconv.FormatInt(order.Amount, 10))
	values.Set("currency", order.Currency)
	values.Set("returnUrl", order.ReturnURL)
	values.Set("description", order.Description)

	body, err := c.call(ctx, "/register.do", values)
	if err != nil {
		return nil, err
	}

	var reg RegisteredOrder
	if err := json.Unmarshal(body, &reg); err != nil {
		return nil, apperr.NewExternalService(gatewayName, "unreadable register response", err)
	}
	if reg.OrderID == "" {
		return nil, apperr.NewExternalService(gatewayName, "gateway returned no order id", nil)
	}
	return &reg, nil
}

func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (*OrderStatus, error) {
	if orderID == "" {
		return nil, apperr.NewValidation("orderId is required")
	}

	values := url.Values{}
	values.Set("userName", c.username)
	values.Set("password", c.password)
	values.Set("orderId", orderID)

	body, err := c.call(ctx, "/getOrderStatus.do", values)
	if err != nil {
		return nil, err
	}

	var status OrderStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, apperr.NewExternalService(gatewayName, "unreadable status response", err)
	}
	return &status, nil
}

func (c *Client) call(ctx context.Context, path string, values url.Values) ([]byte, error) {
	// Credentials travel in the form body, never the URL: url.Error wraps
	// the full URL into any transport failure it reports.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, apperr.NewValidation("invalid gateway request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	log.Printf("clictopay: POST %s order=%s", path, values.Get("orderNumber")+values.Get("orderId"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			return nil, apperr.NewTimeout(gatewayName, "gateway request timed out", err)
		}
		return nil, apperr.NewExternalService(gatewayName, "gateway request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewExternalService(gatewayName, "reading gateway response failed", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperr.NewAuthentication("gateway rejected merchant credentials")
	case resp.StatusCode == http.StatusBadRequest:
		return nil, apperr.NewValidation(fmt.Sprintf("gateway rejected request: %.256s", string(body)))
	default:
		return nil, apperr.NewExternalService(gatewayName,
			fmt.Sprintf("gateway returned status %d", resp.StatusCode), nil)
	}
}

func isClientTimeout(err error) bool {
	var uerr interface{ Timeout() bool }
	return errors.As(err, &uerr) && uerr.Timeout()
}
