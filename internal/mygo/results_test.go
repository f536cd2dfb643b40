package mygo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSearchResult_BothRoomShapes(t *testing.T) {
	body := []byte(`{
		"token": "sess-123",
		"hotels": [
			{
				"id": 101, "name": "Dar El Medina", "category": 4,
				"rooms": [
					{"id": 9, "price": 240.5, "boarding": "BB", "extra": "legacy"},
					{"roomId": 10, "basePrice": 310, "boardCode": "HB", "promo": true}
				]
			}
		]
	}`)

	res, err := decodeSearchResult(body)
	require.NoError(t, err)
	require.Len(t, res.Hotels, 1)

	hotel := res.Hotels[0]
	assert.Equal(t, 101, hotel.ID)
	assert.Equal(t, "Dar El Medina", hotel.Name)
	require.Len(t, hotel.Rooms, 2)

	legacy := hotel.Rooms[0]
	assert.Equal(t, 9, legacy.RoomID)
	assert.Equal(t, 240.5, legacy.BasePrice)
	assert.Equal(t, "BB", legacy.BoardCode)
	assert.Contains(t, string(legacy.Raw), `"extra":"legacy"`, "unknown fields are preserved")

	current := hotel.Rooms[1]
	assert.Equal(t, 10, current.RoomID)
	assert.Equal(t, 310.0, current.BasePrice)
	assert.Equal(t, "HB", current.BoardCode)
	assert.Contains(t, string(current.Raw), `"promo":true`)
}

func TestDecodeSearchResult_TokenNeverSerializes(t *testing.T) {
	res, err := decodeSearchResult([]byte(`{"token":"sess-123","hotels":[{"id":1,"name":"A"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "sess-123", res.token)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "token")
	assert.NotContains(t, string(out), "sess-123")
}

func TestDecodeSearchResult_EmptyHotels(t *testing.T) {
	res, err := decodeSearchResult([]byte(`{"token":"t"}`))
	require.NoError(t, err)
	assert.NotNil(t, res.Hotels)
	assert.Empty(t, res.Hotels)
}

func TestStripToken(t *testing.T) {
	cleaned := stripToken([]byte(`{"token":"sess-1","cities":[{"id":1,"name":"Tunis"}]}`))
	assert.NotContains(t, string(cleaned), "token")
	assert.Contains(t, string(cleaned), "Tunis")

	// bodies without a token come back unchanged
	original := json.RawMessage(`{"cities":[]}`)
	assert.Equal(t, original, stripToken(original))

	// non-object bodies come back unchanged
	arr := json.RawMessage(`[1,2,3]`)
	assert.Equal(t, arr, stripToken(arr))
}
