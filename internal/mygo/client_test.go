package mygo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	policy := fastPolicy()
	return NewClient(Config{
		BaseURL:  srv.URL,
		Login:    "agency",
		Password: "s3cret",
		Timeout:  time.Second,
		Retry:    &policy,
	})
}

func TestClientSearchHotels_WireAndResult(t *testing.T) {
	var gotBody []byte
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		assert.Equal(t, "/hotels/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"sess-9","hotels":[{"id":101,"name":"Dar El Medina","rooms":[{"roomId":1,"basePrice":200,"boardCode":"BB"}]}]}`))
	})

	res, err := client.SearchHotels(context.Background(), validRawParams())
	require.NoError(t, err)

	var wire searchRequest
	require.NoError(t, json.Unmarshal(gotBody, &wire))
	assert.Equal(t, 5, wire.SearchDetails.City)
	assert.Equal(t, "agency", wire.Credential.Login)
	assert.Equal(t, "s3cret", wire.Credential.Password)

	require.Len(t, res.Hotels, 1)
	assert.Equal(t, "sess-9", res.token)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "token")
}

func TestClientSearchHotels_ValidationShortCircuits(t *testing.T) {
	var called int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
	})

	raw := validRawParams()
	raw.CityID = 0
	_, err := client.SearchHotels(context.Background(), raw)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.EqualValues(t, 0, atomic.LoadInt32(&called), "validation failures must precede network I/O")
}

func TestClientListCities_StripsToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cities", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"Login":"agency"`)
		w.Write([]byte(`{"token":"sess-2","cities":[{"id":1,"name":"Tunis"},{"id":2,"name":"Sousse"}]}`))
	})

	cities, err := client.ListCities(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, string(cities), "token")
	assert.Contains(t, string(cities), "Sousse")
}

func TestClientListHotels(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hotels", r.URL.Path)
		var req hotelListRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.City)
		w.Write([]byte(`{"hotels":[{"id":11,"name":"Movenpick"}]}`))
	})

	hotels, err := client.ListHotels(context.Background(), 3)
	require.NoError(t, err)
	assert.Contains(t, string(hotels), "Movenpick")

	_, err = client.ListHotels(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestClientCreateBooking_ChainsToken(t *testing.T) {
	var bookingBody []byte
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/hotels/search":
			w.Write([]byte(`{"token":"sess-7","hotels":[{"id":101,"name":"A"}]}`))
		case "/bookings":
			bookingBody, _ = io.ReadAll(r.Body)
			w.Write([]byte(`{"supplierRef":"MG-889","status":"confirmed","amount":420.5,"currency":"TND"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	res, err := client.SearchHotels(context.Background(), validRawParams())
	require.NoError(t, err)

	conf, err := client.CreateBooking(context.Background(), res, BookingSelection{
		HotelID:    101,
		RoomIDs:    []int{1},
		GuestName:  "Amine Trabelsi",
		GuestEmail: "amine@example.tn",
	})
	require.NoError(t, err)
	assert.Equal(t, "MG-889", conf.SupplierRef)
	assert.Equal(t, "confirmed", conf.Status)
	assert.Contains(t, string(bookingBody), `"Token":"sess-7"`)
}

func TestClientSearchAvailability_ForcesFilters(t *testing.T) {
	var gotBody []byte
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		assert.Equal(t, "/hotels/search", r.URL.Path)
		w.Write([]byte(`{"token":"sess-3","hotels":[]}`))
	})

	_, err := client.SearchAvailability(context.Background(), validRawParams(), []int{101, 102})
	require.NoError(t, err)

	var wire searchRequest
	require.NoError(t, json.Unmarshal(gotBody, &wire))
	assert.Equal(t, []int{101, 102}, wire.SearchDetails.BookingDetails.Hotels)
	assert.True(t, wire.SearchDetails.Filters.OnlyAvailable)
}

func TestClientSearchAvailability_RequiresHotels(t *testing.T) {
	var called int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&called, 1)
	})

	_, err := client.SearchAvailability(context.Background(), validRawParams(), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = client.SearchAvailability(context.Background(), validRawParams(), []int{0})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.EqualValues(t, 0, atomic.LoadInt32(&called))
}

func TestClientCreateBooking_RequiresSearchSession(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.CreateBooking(context.Background(), &SearchResult{}, BookingSelection{HotelID: 1})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
