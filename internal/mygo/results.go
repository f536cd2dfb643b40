package mygo

import (
	"encoding/json"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
)

// SearchResult is the outward view of a MyGO search. The supplier session
// token lives only in the unexported field: it is consumed by the follow-up
// booking call and must never serialize outward or land in a cache.
type SearchResult struct {
	Hotels []Hotel `json:"hotels"`

	token string
}

// Hotel keeps the handful of fields the storefront filters and sorts on,
// plus the raw supplier object. MyGO's response schema has drifted across
// versions, so unknown fields ride along untouched in Raw.
type Hotel struct {
	ID       int          `json:"id"`
	Name     string       `json:"name"`
	Category int          `json:"category,omitempty"`
	MinPrice float64      `json:"minPrice,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Tags     []int        `json:"tags,omitempty"`
	Rooms    []RoomResult `json:"rooms,omitempty"`

	BestValueScore float64 `json:"bestValueScore,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// RoomResult normalizes the two room shapes MyGO has been observed to emit:
// {id, price, boarding} and {roomId, basePrice, boardCode}.
type RoomResult struct {
	RoomID    int     `json:"roomId"`
	Name      string  `json:"name,omitempty"`
	BasePrice float64 `json:"basePrice"`
	BoardCode string  `json:"boardCode,omitempty"`
	Available bool    `json:"available"`

	Raw json.RawMessage `json:"-"`
}

func (h *Hotel) UnmarshalJSON(data []byte) error {
	type alias Hotel
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*h = Hotel(a)
	h.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r *RoomResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID        *int     `json:"id"`
		RoomID    *int     `json:"roomId"`
		Name      string   `json:"name"`
		Price     *float64 `json:"price"`
		BasePrice *float64 `json:"basePrice"`
		Boarding  string   `json:"boarding"`
		BoardCode string   `json:"boardCode"`
		Available *bool    `json:"available"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Name = aux.Name
	switch {
	case aux.RoomID != nil:
		r.RoomID = *aux.RoomID
	case aux.ID != nil:
		r.RoomID = *aux.ID
	}
	switch {
	case aux.BasePrice != nil:
		r.BasePrice = *aux.BasePrice
	case aux.Price != nil:
		r.BasePrice = *aux.Price
	}
	if aux.BoardCode != "" {
		r.BoardCode = aux.BoardCode
	} else {
		r.BoardCode = aux.Boarding
	}
	if aux.Available != nil {
		r.Available = *aux.Available
	} else {
		r.Available = true
	}
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func decodeSearchResult(body json.RawMessage) (*SearchResult, error) {
	var env struct {
		Token  string  `json:"token"`
		Hotels []Hotel `json:"hotels"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, apperr.NewExternalService(serviceName, "unreadable search response", err)
	}
	if env.Hotels == nil {
		env.Hotels = []Hotel{}
	}
	return &SearchResult{Hotels: env.Hotels, token: env.Token}, nil
}

// stripToken removes the supplier session token from a raw response before
// it leaves the facade. Pass-through operations route everything they
// return through here so no future call path can leak it.
func stripToken(body json.RawMessage) json.RawMessage {
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(body, &decoded); err != nil {
		return body
	}
	if _, ok := decoded["token"]; !ok {
		return body
	}
	delete(decoded, "token")
	cleaned, err := json.Marshal(decoded)
	if err != nil {
		return body
	}
	return cleaned
}
