package mygo

import "github.com/ziedsaddem/hotelbooking/internal/apperr"

// Wire shapes for the MyGO search endpoint. Field names follow the
// supplier's PascalCase contract, not ours.

type searchRequest struct {
	SearchDetails searchDetails   `json:"SearchDetails"`
	Credential    credentialBlock `json:"Credential"`
}

type searchDetails struct {
	City           int            `json:"City"`
	BookingDetails bookingDetails `json:"BookingDetails"`
	Filters        searchFilters  `json:"Filters"`
	Rooms          []roomRequest  `json:"Rooms"`
}

type bookingDetails struct {
	CheckIn  string `json:"CheckIn"`
	CheckOut string `json:"CheckOut"`
	Hotels   []int  `json:"Hotels"`
}

type searchFilters struct {
	OnlyAvailable bool `json:"OnlyAvailable"`
}

type roomRequest struct {
	Adult int   `json:"Adult"`
	Child []int `json:"Child"`
}

type credentialBlock struct {
	Login    string `json:"Login"`
	Password string `json:"Password"`
}

// buildSearchRequest maps normalized params into the supplier wire shape.
// The city check is repeated here so no caller, present or future, can make
// this builder emit a request without the City field. Pure and
// deterministic; the result is built fresh per call and never mutated.
func buildSearchRequest(cred Credential, params SearchParams) (*searchRequest, error) {
	if params.CityID <= 0 {
		return nil, apperr.NewValidation("City must be a positive integer")
	}

	hotels := params.HotelIDs
	if hotels == nil {
		hotels = []int{}
	}

	rooms := make([]roomRequest, len(params.Rooms))
	for i, r := range params.Rooms {
		ages := r.ChildrenAges
		if ages == nil {
			ages = []int{}
		}
		// Room order carries meaning: room index correlates to pax
		// assignment in the later booking call.
		rooms[i] = roomRequest{Adult: r.Adults, Child: ages}
	}

	return &searchRequest{
		SearchDetails: searchDetails{
			City: params.CityID,
			BookingDetails: bookingDetails{
				CheckIn:  params.CheckIn,
				CheckOut: params.CheckOut,
				Hotels:   hotels,
			},
			Filters: searchFilters{OnlyAvailable: params.OnlyAvailable},
			Rooms:   rooms,
		},
		Credential: credentialBlock{
			Login:    cred.Login,
			Password: cred.Password,
		},
	}, nil
}

// credentialOnlyRequest is the body for catalogue endpoints that take no
// search criteria (city and hotel listings).
type credentialOnlyRequest struct {
	Credential credentialBlock `json:"Credential"`
}

type hotelListRequest struct {
	City       int             `json:"City"`
	Credential credentialBlock `json:"Credential"`
}
