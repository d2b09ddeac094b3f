package request_models

import (
	"time"
)

type TravelType string

const (
	TravelSolo     TravelType = "solo"
	TravelCouple   TravelType = "couple"
	TravelFamily   TravelType = "family"
	TravelBusiness TravelType = "business"
)

// TripPreferences is the immutable input of one generation attempt. Dates are
// "2006-01-02" strings, matching what the form collaborator submits.
type TripPreferences struct {
	Destination   string     `json:"destination" binding:"required"`
	StartDate     string     `json:"start_date" binding:"required"`
	EndDate       string     `json:"end_date" binding:"required"`
	Budget        float64    `json:"budget" binding:"required,gt=0"`
	TravelType    TravelType `json:"travel_type" binding:"required"`
	Interests     []string   `json:"interests"`
	Accommodation string     `json:"accommodation"`
}

func (p TripPreferences) Validate() error {
	if p.Destination == "" || p.Budget <= 0 {
		return ErrInvalidPreferences
	}
	switch p.TravelType {
	case TravelSolo, TravelCouple, TravelFamily, TravelBusiness:
	default:
		return ErrInvalidPreferences
	}
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return ErrInvalidPreferences
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil {
		return ErrInvalidPreferences
	}
	if end.Before(start) {
		return ErrInvalidPreferences
	}
	return nil
}

// DayCount returns the inclusive number of itinerary days, or 0 if the
// preferences do not validate.
func (p TripPreferences) DayCount() int {
	start, err1 := time.Parse("2006-01-02", p.StartDate)
	end, err2 := time.Parse("2006-01-02", p.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// DateOfDay returns the calendar date of day n (1-based).
func (p TripPreferences) DateOfDay(n int) string {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return ""
	}
	return start.AddDate(0, 0, n-1).Format("2006-01-02")
}

type PlanTripRequest struct {
	TripID      *string         `json:"trip_id"`
	Preferences TripPreferences `json:"preferences" binding:"required"`
}
