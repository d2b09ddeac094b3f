package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LegType string

const (
	LegFlight  LegType = "flight"
	LegLodging LegType = "lodging"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingFailed    BookingStatus = "failed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether a record can never transition again.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingFailed || s == BookingCancelled
}

// BookingRecord tracks one booking attempt for one itinerary leg. A failed
// leg gets a fresh record on re-request; a confirmed leg is returned as-is.
type BookingRecord struct {
	BaseModel
	TripID         uuid.UUID `gorm:"type:uuid;index"`
	LegType        LegType   `gorm:"type:varchar(20)"`
	Status         BookingStatus `gorm:"type:varchar(20)"`
	ProviderRef    string
	RequestedTerms datatypes.JSON
	ConfirmedPrice float64
	FailureReason  string
}

type TripBookingStatus string

const (
	TripFullyBooked     TripBookingStatus = "fully_booked"
	TripPartiallyBooked TripBookingStatus = "partially_booked"
	TripUnbooked        TripBookingStatus = "unbooked"
)

// DeriveBookingStatus computes the aggregate booking state of a trip from its
// records. The aggregate is never stored; it is always derived on read.
// Cancelled records are superseded attempts and do not count; a retried leg
// therefore counts only once.
func DeriveBookingStatus(records []BookingRecord) TripBookingStatus {
	latest := make(map[LegType]BookingRecord)
	for _, r := range records {
		if r.Status == BookingCancelled {
			continue
		}
		prev, ok := latest[r.LegType]
		if !ok || r.CreatedAt > prev.CreatedAt {
			latest[r.LegType] = r
		}
	}
	if len(latest) == 0 {
		return TripUnbooked
	}

	confirmed := 0
	for _, r := range latest {
		if r.Status == BookingConfirmed {
			confirmed++
		}
	}
	switch {
	case confirmed == len(latest):
		return TripFullyBooked
	case confirmed > 0:
		return TripPartiallyBooked
	default:
		return TripUnbooked
	}
}
