package mygo

import (
	"fmt"
	"math"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
)

// Credential is the MyGO account pair. It is embedded verbatim in every
// outbound request and must never reach logs in clear or be persisted.
type Credential struct {
	Login    string
	Password string
}

// RawSearchParams mirrors the storefront search body before normalization.
// CityID is a float64 on purpose: JSON carries all numbers as doubles and
// the validator has to reject fractional ids, not truncate them.
type RawSearchParams struct {
	CityID        float64   `json:"cityId"`
	CheckIn       string    `json:"checkIn"`
	CheckOut      string    `json:"checkOut"`
	Rooms         []RawRoom `json:"rooms"`
	HotelIDs      []int     `json:"hotelIds,omitempty"`
	OnlyAvailable bool      `json:"onlyAvailable,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Keywords      string    `json:"keywords,omitempty"`
	Categories    []int     `json:"categories,omitempty"`
	Tags          []int     `json:"tags,omitempty"`
}

type RawRoom struct {
	Adults       int   `json:"adults"`
	ChildrenAges []int `json:"childrenAges,omitempty"`
}

// SearchParams is the normalized form accepted by the payload builder.
type SearchParams struct {
	CityID        int
	CheckIn       string
	CheckOut      string
	Rooms         []Room
	HotelIDs      []int
	OnlyAvailable bool
	Currency      string
	Keywords      string
	Categories    []int
	Tags          []int
}

type Room struct {
	Adults       int
	ChildrenAges []int
}

var validCurrencies = map[string]bool{
	"TND": true,
	"EUR": true,
	"USD": true,
}

// ValidateSearchParams normalizes raw storefront parameters or rejects them
// before any network call. MyGO itself accepts a request without a City and
// answers with an ambiguous error, so the city check here is the actual
// quality gate. Pure function, no I/O.
func ValidateSearchParams(raw RawSearchParams) (SearchParams, error) {
	if raw.CityID <= 0 || raw.CityID != math.Trunc(raw.CityID) {
		return SearchParams{}, apperr.NewValidation("cityId is required (positive integer)")
	}
	if raw.CheckIn == "" {
		return SearchParams{}, apperr.NewValidation("checkIn is required")
	}
	if raw.CheckOut == "" {
		return SearchParams{}, apperr.NewValidation("checkOut is required")
	}
	if len(raw.Rooms) == 0 {
		return SearchParams{}, apperr.NewValidation("at least one room is required")
	}
	if raw.Currency != "" && !validCurrencies[raw.Currency] {
		return SearchParams{}, apperr.NewValidation("currency must be one of TND, EUR, USD")
	}

	rooms := make([]Room, len(raw.Rooms))
	for i, r := range raw.Rooms {
		if r.Adults <= 0 {
			return SearchParams{}, apperr.NewValidation(fmt.Sprintf("rooms[%d]: adults must be a positive integer", i))
		}
		ages := r.ChildrenAges
		if ages == nil {
			ages = []int{}
		}
		for _, age := range ages {
			if age < 0 {
				return SearchParams{}, apperr.NewValidation(fmt.Sprintf("rooms[%d]: children ages must not be negative", i))
			}
		}
		rooms[i] = Room{Adults: r.Adults, ChildrenAges: ages}
	}

	return SearchParams{
		CityID:        int(raw.CityID),
		CheckIn:       raw.CheckIn,
		CheckOut:      raw.CheckOut,
		Rooms:         rooms,
		HotelIDs:      raw.HotelIDs,
		OnlyAvailable: raw.OnlyAvailable,
		Currency:      raw.Currency,
		Keywords:      raw.Keywords,
		Categories:    raw.Categories,
		Tags:          raw.Tags,
	}, nil
}
