package models

import "github.com/ziedsaddem/hotelbooking/internal/mygo"

// HotelSearchRequest is the storefront search body. The embedded supplier
// params bind flat; sort fields are handled client-side and never reach
// the supplier.
type HotelSearchRequest struct {
	mygo.RawSearchParams
	SortBy    string `json:"sortBy,omitempty"`
	SortOrder string `json:"sortOrder,omitempty"`
}

// BookingRequest creates a booking. The search block replays the
// availability search server-side so the booking chains onto a fresh
// supplier session; the storefront never sees or sends a session token.
type BookingRequest struct {
	Search     mygo.RawSearchParams `json:"search"`
	HotelID    int                  `json:"hotelId" validate:"required,gt=0"`
	RoomIDs    []int                `json:"roomIds" validate:"omitempty,dive,gt=0"`
	GuestName  string               `json:"guestName" validate:"required"`
	GuestEmail string               `json:"guestEmail" validate:"required,email"`
}

type NotifyRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=4000"`
}
