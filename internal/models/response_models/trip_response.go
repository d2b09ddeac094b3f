package response_models

type TripResponse struct {
	ID            string           `json:"id"`
	Destination   string           `json:"destination"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	Budget        float64          `json:"budget"`
	TravelType    string           `json:"travel_type"`
	Version       int              `json:"version"`
	BookingStatus string           `json:"booking_status"`
	Itinerary     *Itinerary       `json:"itinerary,omitempty"`
	Bookings      []BookingLegView `json:"bookings,omitempty"`
}

type BookingLegView struct {
	ID             string  `json:"id"`
	LegType        string  `json:"leg_type"`
	Status         string  `json:"status"`
	ProviderRef    string  `json:"provider_ref,omitempty"`
	ConfirmedPrice float64 `json:"confirmed_price,omitempty"`
	FailureReason  string  `json:"failure_reason,omitempty"`
}

type TripSummaryResponse struct {
	ID            string `json:"id"`
	Destination   string `json:"destination"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Version       int    `json:"version"`
	BookingStatus string `json:"booking_status"`
}

type CreditBalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}
