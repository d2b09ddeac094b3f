package response_models

import (
	"fmt"

	"tripforge/internal/models/request_models"
)

// SchemaViolation names the first field of a candidate itinerary payload
// that breaks the contract. Pure data, no side effects anywhere in this file.
type SchemaViolation struct {
	Field  string
	Reason string
}

func (v *SchemaViolation) Error() string {
	return fmt.Sprintf("itinerary schema violation at %s: %s", v.Field, v.Reason)
}

func violation(field, reason string) error {
	return &SchemaViolation{Field: field, Reason: reason}
}

// ValidateItinerary checks a candidate payload against the itinerary contract
// for the given preferences and returns the first violation found. Both the
// AI path and the fallback path run through this, so downstream consumers see
// identical guarantees regardless of producer.
func ValidateItinerary(prefs request_models.TripPreferences, it *Itinerary) error {
	if it == nil {
		return violation("itinerary", "missing payload")
	}
	if it.Destination == "" {
		return violation("destination", "missing")
	}
	wantDays := prefs.DayCount()
	if it.DurationDays != wantDays {
		return violation("duration_days", fmt.Sprintf("expected %d, got %d", wantDays, it.DurationDays))
	}
	if len(it.Days) != wantDays {
		return violation("days", fmt.Sprintf("expected %d entries, got %d", wantDays, len(it.Days)))
	}
	if it.ToleranceMargin < 0 {
		return violation("tolerance_margin", "negative")
	}

	bb := it.BudgetBreakdown
	for field, v := range map[string]float64{
		"budget_breakdown.accommodation": bb.Accommodation,
		"budget_breakdown.food":          bb.Food,
		"budget_breakdown.activities":    bb.Activities,
		"budget_breakdown.transport":     bb.Transport,
	} {
		if v < 0 {
			return violation(field, "negative cost")
		}
	}
	if limit := prefs.Budget * (1 + it.ToleranceMargin); bb.Total() > limit {
		return violation("budget_breakdown", fmt.Sprintf("allocations %.2f exceed budget %.2f with margin", bb.Total(), limit))
	}

	for i, day := range it.Days {
		prefix := fmt.Sprintf("days[%d]", i)
		if day.Day != i+1 {
			return violation(prefix+".day", fmt.Sprintf("expected %d, got %d", i+1, day.Day))
		}
		if want := prefs.DateOfDay(i + 1); day.Date != want {
			return violation(prefix+".date", fmt.Sprintf("expected %s, got %s", want, day.Date))
		}
		if len(day.Activities) == 0 {
			return violation(prefix+".activities", "empty")
		}
		for j, act := range day.Activities {
			if act.Name == "" {
				return violation(fmt.Sprintf("%s.activities[%d].name", prefix, j), "missing")
			}
			if act.Cost < 0 {
				return violation(fmt.Sprintf("%s.activities[%d].cost", prefix, j), "negative cost")
			}
		}
		if day.Accommodation != nil && day.Accommodation.PricePerNight < 0 {
			return violation(prefix+".accommodation.price_per_night", "negative cost")
		}
		if day.Restaurant != nil && day.Restaurant.PriceMeal < 0 {
			return violation(prefix+".restaurant.price_meal", "negative cost")
		}
		if day.Transport != nil && day.Transport.Cost < 0 {
			return violation(prefix+".transport.cost", "negative cost")
		}
	}
	return nil
}
