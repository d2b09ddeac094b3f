package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tripforge/internal/models/db_models"
)

type TripRepository interface {
	CreateTrip(ctx context.Context, trip *db_models.Trip) error
	GetTripById(ctx context.Context, tripId string) (*db_models.Trip, error)
	ListTripsByUserId(ctx context.Context, page int, pageSize int, userId string) ([]db_models.Trip, error)
	ReplaceItinerary(ctx context.Context, trip *db_models.Trip, itinerary datatypes.JSON) error
	UpdateItinerary(ctx context.Context, tripId uuid.UUID, itinerary datatypes.JSON) error
	CreateBookingRecord(ctx context.Context, record *db_models.BookingRecord) error
	UpdateBookingRecord(ctx context.Context, record *db_models.BookingRecord) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{
		db: db,
	}
}

func (r *tripRepository) CreateTrip(ctx context.Context, trip *db_models.Trip) error {
	return r.db.WithContext(ctx).Create(trip).Error
}

func (r *tripRepository) GetTripById(ctx context.Context, tripId string) (*db_models.Trip, error) {
	var trip db_models.Trip
	err := r.db.WithContext(ctx).
		Preload("Bookings").
		First(&trip, "id = ?", tripId).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &trip, nil
}

func (r *tripRepository) ListTripsByUserId(ctx context.Context, page, pageSize int, userId string) ([]db_models.Trip, error) {
	var trips []db_models.Trip
	err := r.db.WithContext(ctx).
		Preload("Bookings").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

// ReplaceItinerary swaps the current itinerary for a regenerated one and bumps
// the version in the same statement, so there is never a moment with two
// current itineraries or a stale version number.
func (r *tripRepository) ReplaceItinerary(ctx context.Context, trip *db_models.Trip, itinerary datatypes.JSON) error {
	updates := map[string]interface{}{
		"destination":   trip.Destination,
		"start_date":    trip.StartDate,
		"end_date":      trip.EndDate,
		"budget":        trip.Budget,
		"travel_type":   trip.TravelType,
		"interests":     trip.Interests,
		"accommodation": trip.Accommodation,
		"itinerary":     itinerary,
		"version":       gorm.Expr("version + 1"),
	}

	res := r.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Where("id = ?", trip.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	trip.Version++
	trip.Itinerary = itinerary
	return nil
}

func (r *tripRepository) UpdateItinerary(ctx context.Context, tripId uuid.UUID, itinerary datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Where("id = ?", tripId).
		Update("itinerary", itinerary).Error
}

func (r *tripRepository) CreateBookingRecord(ctx context.Context, record *db_models.BookingRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *tripRepository) UpdateBookingRecord(ctx context.Context, record *db_models.BookingRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}
