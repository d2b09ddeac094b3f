package db_models

import (
	"encoding/json"

	"tripforge/internal/models/response_models"
)

// BuildTripResponse flattens a trip and its booking records into the API
// shape. The aggregate booking status is derived here, never read from a
// column.
func BuildTripResponse(trip *Trip) *response_models.TripResponse {
	out := &response_models.TripResponse{
		ID:            trip.ID.String(),
		Destination:   trip.Destination,
		StartDate:     trip.StartDate,
		EndDate:       trip.EndDate,
		Budget:        trip.Budget,
		TravelType:    trip.TravelType,
		Version:       trip.Version,
		BookingStatus: string(DeriveBookingStatus(trip.Bookings)),
	}

	if len(trip.Itinerary) > 0 {
		var it response_models.Itinerary
		if err := json.Unmarshal(trip.Itinerary, &it); err == nil {
			out.Itinerary = &it
		}
	}

	for _, b := range trip.Bookings {
		out.Bookings = append(out.Bookings, response_models.BookingLegView{
			ID:             b.ID.String(),
			LegType:        string(b.LegType),
			Status:         string(b.Status),
			ProviderRef:    b.ProviderRef,
			ConfirmedPrice: b.ConfirmedPrice,
			FailureReason:  b.FailureReason,
		})
	}
	return out
}

func BuildTripSummary(trip *Trip) response_models.TripSummaryResponse {
	return response_models.TripSummaryResponse{
		ID:            trip.ID.String(),
		Destination:   trip.Destination,
		StartDate:     trip.StartDate,
		EndDate:       trip.EndDate,
		Version:       trip.Version,
		BookingStatus: string(DeriveBookingStatus(trip.Bookings)),
	}
}
