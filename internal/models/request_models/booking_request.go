package request_models

import "errors"

// ErrInvalidPreferences reports a TripPreferences payload that cannot be
// submitted for generation.
var ErrInvalidPreferences = errors.New("invalid trip preferences")

type RequestBookingsRequest struct {
	TripID string   `json:"trip_id" binding:"required,uuid4"`
	Legs   []string `json:"legs" binding:"required,min=1"`
}

// BookingTerms is the provider-facing description of one leg. Flight legs
// fill Origin/Destination/Date, lodging legs fill City/CheckIn/CheckOut.
type BookingTerms struct {
	LegType     string  `json:"leg_type"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination,omitempty"`
	Date        string  `json:"date,omitempty"`
	City        string  `json:"city,omitempty"`
	CheckIn     string  `json:"check_in,omitempty"`
	CheckOut    string  `json:"check_out,omitempty"`
	Travelers   int     `json:"travelers,omitempty"`
	QuotedPrice float64 `json:"quoted_price,omitempty"`
}
