package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

type TripServiceInterface interface {
	// PlanTrip generates an itinerary for the given preferences and persists
	// it. When the request carries a trip id the existing trip is replanned in
	// place: same id, version incremented, previous itinerary discarded.
	PlanTrip(ctx context.Context, userId uuid.UUID, req request_models.PlanTripRequest) (*response_models.TripResponse, error)

	GetTripById(ctx context.Context, userId uuid.UUID, tripId string) (*response_models.TripResponse, error)
	ListTrips(ctx context.Context, userId uuid.UUID, page int, pageSize int) ([]response_models.TripSummaryResponse, error)
}

type tripService struct {
	tripRepo      repositories.TripRepository
	creditService CreditServiceInterface
	planner       utils.PlannerClientInterface
	fallback      *MockGenerator
}

func NewTripService(
	tripRepo repositories.TripRepository,
	creditService CreditServiceInterface,
	planner utils.PlannerClientInterface,
	fallback *MockGenerator,
) TripServiceInterface {
	return &tripService{
		tripRepo:      tripRepo,
		creditService: creditService,
		planner:       planner,
		fallback:      fallback,
	}
}

func (s *tripService) PlanTrip(ctx context.Context, userId uuid.UUID, req request_models.PlanTripRequest) (*response_models.TripResponse, error) {
	prefs := req.Preferences
	if err := prefs.Validate(); err != nil {
		return nil, utils.ErrInvalidInput
	}

	// On a replan the trip must exist and belong to the caller before any
	// credit is touched.
	var existing *db_models.Trip
	if req.TripID != nil {
		trip, err := s.tripRepo.GetTripById(ctx, *req.TripID)
		if err != nil {
			log.Printf("Failed to load trip %s: %v", *req.TripID, err)
			return nil, utils.ErrDatabaseError
		}
		if trip == nil || trip.UserID != userId {
			return nil, utils.ErrTripNotFound
		}
		existing = trip
	}

	reservation, err := s.creditService.ReservePlanCredit(ctx, userId)
	if err != nil {
		return nil, err
	}

	itinerary := s.generate(ctx, prefs)
	if itinerary == nil {
		s.releaseReservation(ctx, reservation.ID)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, utils.ErrInvalidInput
	}

	payload, err := json.Marshal(itinerary)
	if err != nil {
		s.releaseReservation(ctx, reservation.ID)
		log.Printf("Failed to marshal itinerary: %v", err)
		return nil, utils.ErrDatabaseError
	}

	trip, err := s.persist(ctx, userId, prefs, existing, payload)
	if err != nil {
		s.releaseReservation(ctx, reservation.ID)
		return nil, err
	}

	// The trip is durable at this point, so the hold becomes a real charge.
	// A commit failure here means the user planned for free once the sweep
	// refunds the hold; the trip is still returned.
	if err := s.creditService.CommitReservation(ctx, reservation.ID); err != nil {
		log.Printf("Failed to commit reservation %s after persisting trip %s: %v",
			reservation.ID, trip.ID, err)
	}

	return db_models.BuildTripResponse(trip), nil
}

// generate runs the configured planner and falls back to the deterministic
// generator when the planner is unavailable or returns a plan that does not
// hold up under validation. It only returns nil when the context is done.
func (s *tripService) generate(ctx context.Context, prefs request_models.TripPreferences) *response_models.Itinerary {
	itinerary, err := s.planner.GeneratePlan(ctx, prefs)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		log.Printf("Planner unavailable, using fallback generator: %v", err)
		itinerary, err = s.fallback.GeneratePlan(ctx, prefs)
		if err != nil {
			return nil
		}
		return itinerary
	}

	// Planner clients validate their own output, but the orchestrator does
	// not trust that: anything off-schema is replaced with the fallback plan.
	if err := response_models.ValidateItinerary(prefs, itinerary); err != nil {
		log.Printf("Planner returned off-schema itinerary, using fallback generator: %v", err)
		itinerary, err = s.fallback.GeneratePlan(ctx, prefs)
		if err != nil {
			return nil
		}
	}
	return itinerary
}

func (s *tripService) persist(
	ctx context.Context,
	userId uuid.UUID,
	prefs request_models.TripPreferences,
	existing *db_models.Trip,
	payload datatypes.JSON,
) (*db_models.Trip, error) {
	if existing == nil {
		trip := &db_models.Trip{
			UserID:        userId,
			Destination:   prefs.Destination,
			StartDate:     prefs.StartDate,
			EndDate:       prefs.EndDate,
			Budget:        prefs.Budget,
			TravelType:    string(prefs.TravelType),
			Interests:     prefs.Interests,
			Accommodation: prefs.Accommodation,
			Version:       1,
			Itinerary:     payload,
		}
		if err := s.tripRepo.CreateTrip(ctx, trip); err != nil {
			log.Printf("Failed to create trip: %v", err)
			return nil, utils.ErrDatabaseError
		}
		return trip, nil
	}

	existing.Destination = prefs.Destination
	existing.StartDate = prefs.StartDate
	existing.EndDate = prefs.EndDate
	existing.Budget = prefs.Budget
	existing.TravelType = string(prefs.TravelType)
	existing.Interests = prefs.Interests
	existing.Accommodation = prefs.Accommodation

	if err := s.tripRepo.ReplaceItinerary(ctx, existing, payload); err != nil {
		log.Printf("Failed to replace itinerary for trip %s: %v", existing.ID, err)
		return nil, utils.ErrDatabaseError
	}
	return existing, nil
}

// releaseReservation refunds a hold even when the request context is already
// cancelled; an abandoned request must not leak a charge.
func (s *tripService) releaseReservation(ctx context.Context, reservationId uuid.UUID) {
	if err := s.creditService.ReleaseReservation(context.WithoutCancel(ctx), reservationId); err != nil {
		log.Printf("Failed to release reservation %s: %v", reservationId, err)
	}
}

func (s *tripService) GetTripById(ctx context.Context, userId uuid.UUID, tripId string) (*response_models.TripResponse, error) {
	trip, err := s.tripRepo.GetTripById(ctx, tripId)
	if err != nil {
		log.Printf("Failed to load trip %s: %v", tripId, err)
		return nil, utils.ErrDatabaseError
	}
	if trip == nil || trip.UserID != userId {
		return nil, utils.ErrTripNotFound
	}
	return db_models.BuildTripResponse(trip), nil
}

func (s *tripService) ListTrips(ctx context.Context, userId uuid.UUID, page, pageSize int) ([]response_models.TripSummaryResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	trips, err := s.tripRepo.ListTripsByUserId(ctx, page, pageSize, userId.String())
	if err != nil {
		log.Printf("Failed to list trips for user %s: %v", userId, err)
		return nil, utils.ErrDatabaseError
	}

	summaries := make([]response_models.TripSummaryResponse, 0, len(trips))
	for i := range trips {
		summaries = append(summaries, db_models.BuildTripSummary(&trips[i]))
	}
	return summaries, nil
}
