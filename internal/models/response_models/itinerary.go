package response_models

// Itinerary is the contract every generation path (AI or fallback) must
// satisfy before a trip is persisted. All monetary fields are in the
// currency of TripPreferences.Budget.
type Itinerary struct {
	Destination     string          `json:"destination"`
	DurationDays    int             `json:"duration_days"`
	Budget          float64         `json:"budget"`
	ToleranceMargin float64         `json:"tolerance_margin"`
	BudgetBreakdown BudgetBreakdown `json:"budget_breakdown"`
	Days            []DayPlan       `json:"days"`
	Tips            []string        `json:"tips,omitempty"`
}

type BudgetBreakdown struct {
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
	Transport     float64 `json:"transport"`
}

func (b BudgetBreakdown) Total() float64 {
	return b.Accommodation + b.Food + b.Activities + b.Transport
}

type DayPlan struct {
	Day           int            `json:"day"`
	Date          string         `json:"date"`
	Activities    []Activity     `json:"activities"`
	Accommodation *Accommodation `json:"accommodation,omitempty"`
	Restaurant    *Restaurant    `json:"restaurant,omitempty"`
	Transport     *Transport     `json:"transport,omitempty"`
}

type Activity struct {
	Name        string  `json:"name"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Cost        float64 `json:"cost"`
	Description string  `json:"description,omitempty"`
}

type Accommodation struct {
	Name          string  `json:"name"`
	Type          string  `json:"type,omitempty"`
	PricePerNight float64 `json:"price_per_night"`

	// Filled in by booking reconciliation once a lodging leg confirms.
	BookingRef  string  `json:"booking_ref,omitempty"`
	BookedPrice float64 `json:"booked_price,omitempty"`
}

type Restaurant struct {
	Name      string  `json:"name"`
	Cuisine   string  `json:"cuisine,omitempty"`
	PriceMeal float64 `json:"price_meal"`
}

type Transport struct {
	Mode        string  `json:"mode"`
	Route       string  `json:"route,omitempty"`
	Cost        float64 `json:"cost"`
	BookingRef  string  `json:"booking_ref,omitempty"`
	BookedPrice float64 `json:"booked_price,omitempty"`
}

// TotalCost sums every leaf cost field of the itinerary.
func (i *Itinerary) TotalCost() float64 {
	var total float64
	for _, day := range i.Days {
		for _, act := range day.Activities {
			total += act.Cost
		}
		if day.Accommodation != nil {
			total += day.Accommodation.PricePerNight
		}
		if day.Restaurant != nil {
			total += day.Restaurant.PriceMeal
		}
		if day.Transport != nil {
			total += day.Transport.Cost
		}
	}
	return total
}
