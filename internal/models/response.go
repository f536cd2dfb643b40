package models

import "github.com/ziedsaddem/hotelbooking/internal/mygo"

type SearchMetadata struct {
	TotalResults int   `json:"total_results"`
	SearchTimeMs int64 `json:"search_time_ms"`
	CacheHit     bool  `json:"cache_hit"`
}

type SearchResponse struct {
	Metadata SearchMetadata `json:"metadata"`
	Hotels   []mygo.Hotel   `json:"hotels"`
}

type BookingResponse struct {
	Reference       string  `json:"reference"`
	SupplierRef     string  `json:"supplier_ref,omitempty"`
	Status          string  `json:"status"`
	HotelID         int     `json:"hotel_id"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Amount          float64 `json:"amount"`
	AmountFormatted string  `json:"amount_formatted"`
	Currency        string  `json:"currency"`
	PaymentURL      string  `json:"payment_url,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
