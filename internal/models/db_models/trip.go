package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Trip owns exactly one current itinerary. Version starts at 1 on the first
// successful generation and increments on every accepted regeneration; the
// prior itinerary JSON is overwritten, not retained.
type Trip struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index"`
	Destination   string
	StartDate     string
	EndDate       string
	Budget        float64
	TravelType    string
	Interests     pq.StringArray `gorm:"type:text[]"`
	Accommodation string
	Version       int
	Itinerary     datatypes.JSON

	Bookings []BookingRecord `gorm:"foreignKey:TripID"`
}
