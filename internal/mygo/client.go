package mygo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
	"github.com/ziedsaddem/hotelbooking/internal/obs"
	"github.com/ziedsaddem/hotelbooking/internal/ratelimit"
)

const defaultBaseURL = "https://api.mygo.tn/v1"

const (
	pathSearch   = "/hotels/search"
	pathCities   = "/cities"
	pathHotels   = "/hotels"
	pathBookings = "/bookings"
)

// Client is the typed facade over the MyGO supplier API. It composes
// validation, payload construction, and the resilient transport into the
// operations the route handlers consume. Safe for concurrent use: all
// fields are read-only after construction.
type Client struct {
	cred      Credential
	transport *transport
	limiter   *ratelimit.OperationLimiter
}

type Config struct {
	BaseURL  string
	Login    string
	Password string
	Timeout  time.Duration
	Retry    *RetryPolicy
	Limiter  *ratelimit.OperationLimiter
	Metrics  *obs.Metrics
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	policy := defaultRetryPolicy()
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}

	return &Client{
		cred:      Credential{Login: cfg.Login, Password: cfg.Password},
		transport: newTransport(baseURL, timeout, policy, cfg.Metrics),
		limiter:   cfg.Limiter,
	}
}

// SearchHotels runs an availability search. Validation failures surface
// before any network I/O; transport failures propagate unchanged. The
// supplier token is retained inside the result for a follow-up booking and
// never serializes outward.
func (c *Client) SearchHotels(ctx context.Context, raw RawSearchParams) (*SearchResult, error) {
	params, err := ValidateSearchParams(raw)
	if err != nil {
		return nil, err
	}
	payload, err := buildSearchRequest(c.cred, params)
	if err != nil {
		return nil, err
	}
	if err := c.wait(ctx, "search"); err != nil {
		return nil, err
	}
	body, err := c.transport.post(ctx, "search", pathSearch, payload)
	if err != nil {
		return nil, err
	}
	return decodeSearchResult(body)
}

// SearchAvailability is SearchHotels narrowed to bookable inventory for a
// known set of hotels. MyGO has no dedicated endpoint for this; it is the
// same search with the availability filter forced on.
func (c *Client) SearchAvailability(ctx context.Context, raw RawSearchParams, hotelIDs []int) (*SearchResult, error) {
	if len(hotelIDs) == 0 {
		return nil, apperr.NewValidation("at least one hotelId is required")
	}
	for _, id := range hotelIDs {
		if id <= 0 {
			return nil, apperr.NewValidation("hotelIds must be positive integers")
		}
	}
	raw.HotelIDs = hotelIDs
	raw.OnlyAvailable = true
	return c.SearchHotels(ctx, raw)
}

// ListCities returns the supplier city catalogue as received, minus any
// session token.
func (c *Client) ListCities(ctx context.Context) (json.RawMessage, error) {
	if err := c.wait(ctx, "cities"); err != nil {
		return nil, err
	}
	body, err := c.transport.post(ctx, "cities", pathCities, credentialOnlyRequest{
		Credential: credentialBlock{Login: c.cred.Login, Password: c.cred.Password},
	})
	if err != nil {
		return nil, err
	}
	return stripToken(body), nil
}

// ListHotels returns the hotel catalogue for a city, minus any token.
func (c *Client) ListHotels(ctx context.Context, cityID int) (json.RawMessage, error) {
	if cityID <= 0 {
		return nil, apperr.NewValidation("cityId is required (positive integer)")
	}
	if err := c.wait(ctx, "hotels"); err != nil {
		return nil, err
	}
	body, err := c.transport.post(ctx, "hotels", pathHotels, hotelListRequest{
		City:       cityID,
		Credential: credentialBlock{Login: c.cred.Login, Password: c.cred.Password},
	})
	if err != nil {
		return nil, err
	}
	return stripToken(body), nil
}

// BookingSelection names the room choice and lead guest for a booking that
// chains off a prior search.
type BookingSelection struct {
	HotelID    int    `json:"hotelId"`
	RoomIDs    []int  `json:"roomIds"`
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
}

// BookingConfirmation is the supplier acknowledgement of a booking.
type BookingConfirmation struct {
	SupplierRef string  `json:"supplierRef"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// CreateBooking chains a booking onto result's search session. The token
// travels only on this wire call; it never appears in what we return.
func (c *Client) CreateBooking(ctx context.Context, result *SearchResult, sel BookingSelection) (*BookingConfirmation, error) {
	if result == nil || result.token == "" {
		return nil, apperr.NewValidation("booking requires a prior search session")
	}
	if sel.HotelID <= 0 {
		return nil, apperr.NewValidation("hotelId is required (positive integer)")
	}
	if err := c.wait(ctx, "booking"); err != nil {
		return nil, err
	}

	payload := struct {
		Token      string          `json:"Token"`
		Hotel      int             `json:"Hotel"`
		Rooms      []int           `json:"Rooms"`
		GuestName  string          `json:"GuestName"`
		GuestEmail string          `json:"GuestEmail"`
		Credential credentialBlock `json:"Credential"`
	}{
		Token:      result.token,
		Hotel:      sel.HotelID,
		Rooms:      sel.RoomIDs,
		GuestName:  sel.GuestName,
		GuestEmail: sel.GuestEmail,
		Credential: credentialBlock{Login: c.cred.Login, Password: c.cred.Password},
	}

	body, err := c.transport.post(ctx, "booking", pathBookings, payload)
	if err != nil {
		return nil, err
	}
	var conf BookingConfirmation
	if err := json.Unmarshal(stripToken(body), &conf); err != nil {
		return nil, apperr.NewExternalService(serviceName, "unreadable booking response", err)
	}
	return &conf, nil
}

func (c *Client) wait(ctx context.Context, operation string) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx, operation); err != nil {
		return apperr.NewTimeout(serviceName, "cancelled while rate limited", err)
	}
	return nil
}
