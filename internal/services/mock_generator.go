package services

import (
	"context"
	"fmt"

	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
	"tripforge/pkg/utils"
)

// Budget weights per category, carried over from the planning heuristics the
// product shipped with before AI generation existed.
const (
	transportShare     = 0.40
	accommodationShare = 0.35
	foodShare          = 0.15
	activitiesShare    = 0.10

	mockToleranceMargin = 0.10
)

var fallbackThemes = []string{
	"city walking tour",
	"local market visit",
	"museum and gallery visit",
	"old town exploration",
	"scenic viewpoint hike",
	"riverside stroll",
}

// MockGenerator produces a plain but structurally complete itinerary without
// calling any model. It is the fallback of last resort for the orchestrator,
// so it must never fail on validated preferences.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (g *MockGenerator) GeneratePlan(_ context.Context, prefs request_models.TripPreferences) (*response_models.Itinerary, error) {
	if err := prefs.Validate(); err != nil {
		return nil, utils.ErrInvalidInput
	}

	days := prefs.DayCount()
	budget := prefs.Budget

	transportBudget := budget * transportShare
	accommodationBudget := budget * accommodationShare
	foodBudget := budget * foodShare
	activitiesBudget := budget * activitiesShare

	nightlyRate := accommodationBudget / float64(days)
	mealPrice := foodBudget / float64(days)
	activityCost := activitiesBudget / float64(days*2)

	// Arrival and departure take the bulk of transport; whatever remains is
	// split evenly across local transit on the middle days.
	arrivalCost := transportBudget * 0.4
	localTransit := 0.0
	if days > 2 {
		localTransit = (transportBudget - 2*arrivalCost) / float64(days-2)
	}

	accommodationType := prefs.Accommodation
	if accommodationType == "" {
		accommodationType = "hotel"
	}

	it := &response_models.Itinerary{
		Destination:     prefs.Destination,
		DurationDays:    days,
		Budget:          budget,
		ToleranceMargin: mockToleranceMargin,
		BudgetBreakdown: response_models.BudgetBreakdown{
			Accommodation: accommodationBudget,
			Food:          foodBudget,
			Activities:    activitiesBudget,
			Transport:     transportBudget,
		},
		Tips: []string{
			fmt.Sprintf("Book accommodation in %s early for better rates", prefs.Destination),
			"Keep receipts to track spending against the daily budget",
			"Check local public transport day passes before buying single tickets",
		},
	}

	for d := 1; d <= days; d++ {
		day := response_models.DayPlan{
			Day:  d,
			Date: prefs.DateOfDay(d),
			Activities: []response_models.Activity{
				{
					Name:        g.themeFor(prefs, (d-1)*2),
					StartTime:   "09:00",
					EndTime:     "12:00",
					Cost:        activityCost,
					Description: fmt.Sprintf("Morning in %s", prefs.Destination),
				},
				{
					Name:        g.themeFor(prefs, (d-1)*2+1),
					StartTime:   "14:00",
					EndTime:     "17:00",
					Cost:        activityCost,
					Description: fmt.Sprintf("Afternoon in %s", prefs.Destination),
				},
			},
			Accommodation: &response_models.Accommodation{
				Name:          fmt.Sprintf("%s central %s", prefs.Destination, accommodationType),
				Type:          accommodationType,
				PricePerNight: nightlyRate,
			},
			Restaurant: &response_models.Restaurant{
				Name:      fmt.Sprintf("Local favourite, day %d", d),
				Cuisine:   "local",
				PriceMeal: mealPrice,
			},
		}

		switch {
		case d == 1:
			day.Transport = &response_models.Transport{
				Mode:  "flight",
				Route: fmt.Sprintf("Arrival to %s", prefs.Destination),
				Cost:  arrivalCost,
			}
		case d == days && days > 1:
			day.Transport = &response_models.Transport{
				Mode:  "flight",
				Route: fmt.Sprintf("Departure from %s", prefs.Destination),
				Cost:  arrivalCost,
			}
		default:
			day.Transport = &response_models.Transport{
				Mode:  "metro",
				Route: "Local transit",
				Cost:  localTransit,
			}
		}

		it.Days = append(it.Days, day)
	}

	return it, nil
}

// themeFor rotates through the traveler's interests, falling back to generic
// themes when none were given. Same preferences always yield the same plan.
func (g *MockGenerator) themeFor(prefs request_models.TripPreferences, slot int) string {
	if len(prefs.Interests) > 0 {
		interest := prefs.Interests[slot%len(prefs.Interests)]
		return fmt.Sprintf("%s: %s", interest, prefs.Destination)
	}
	return fallbackThemes[slot%len(fallbackThemes)]
}
