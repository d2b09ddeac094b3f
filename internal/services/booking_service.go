package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

type BookingServiceInterface interface {
	// RequestBookings books the requested itinerary legs with the provider.
	// Legs are independent: each succeeds or fails on its own, a confirmed
	// leg is never re-booked, and a failed leg gets a fresh attempt. The
	// returned trip carries the derived aggregate booking status.
	RequestBookings(ctx context.Context, userId uuid.UUID, req request_models.RequestBookingsRequest) (*response_models.TripResponse, error)
}

type bookingService struct {
	tripRepo repositories.TripRepository
	provider utils.BookingProviderInterface
}

func NewBookingService(tripRepo repositories.TripRepository, provider utils.BookingProviderInterface) BookingServiceInterface {
	return &bookingService{
		tripRepo: tripRepo,
		provider: provider,
	}
}

// legAttempt pairs one pending record with its provider call outcome.
type legAttempt struct {
	record       *db_models.BookingRecord
	terms        request_models.BookingTerms
	confirmation *utils.BookingConfirmation
	err          error
}

func (s *bookingService) RequestBookings(ctx context.Context, userId uuid.UUID, req request_models.RequestBookingsRequest) (*response_models.TripResponse, error) {
	trip, err := s.tripRepo.GetTripById(ctx, req.TripID)
	if err != nil {
		log.Printf("Failed to load trip %s: %v", req.TripID, err)
		return nil, utils.ErrDatabaseError
	}
	if trip == nil || trip.UserID != userId {
		return nil, utils.ErrTripNotFound
	}

	var itinerary response_models.Itinerary
	if len(trip.Itinerary) == 0 || json.Unmarshal(trip.Itinerary, &itinerary) != nil {
		return nil, utils.ErrInvalidInput
	}

	legs, err := parseLegs(req.Legs)
	if err != nil {
		return nil, err
	}

	latest := latestRecords(trip.Bookings)

	var attempts []*legAttempt
	for _, leg := range legs {
		if prev, ok := latest[leg]; ok {
			if prev.Status == db_models.BookingConfirmed {
				continue
			}
			// A failed or stuck attempt is superseded by this one. Cancelling
			// it keeps a single live record per leg.
			prev.Status = db_models.BookingCancelled
			if err := s.tripRepo.UpdateBookingRecord(ctx, &prev); err != nil {
				log.Printf("Failed to cancel superseded booking record %s: %v", prev.ID, err)
				return nil, utils.ErrDatabaseError
			}
			for i := range trip.Bookings {
				if trip.Bookings[i].ID == prev.ID {
					trip.Bookings[i].Status = db_models.BookingCancelled
				}
			}
		}

		terms := s.termsFor(leg, trip, &itinerary)
		termsJSON, err := json.Marshal(terms)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}

		record := &db_models.BookingRecord{
			TripID:         trip.ID,
			LegType:        leg,
			Status:         db_models.BookingPending,
			RequestedTerms: termsJSON,
		}
		if err := s.tripRepo.CreateBookingRecord(ctx, record); err != nil {
			log.Printf("Failed to create booking record for trip %s leg %s: %v", trip.ID, leg, err)
			return nil, utils.ErrDatabaseError
		}

		attempts = append(attempts, &legAttempt{record: record, terms: terms})
	}

	// Provider calls run concurrently, one per leg, each bounded by the
	// client's own timeout. All state transitions happen after the wait.
	var wg sync.WaitGroup
	for _, attempt := range attempts {
		wg.Add(1)
		go func(a *legAttempt) {
			defer wg.Done()
			a.confirmation, a.err = s.provider.BookLeg(ctx, a.terms)
		}(attempt)
	}
	wg.Wait()

	confirmed := false
	for _, attempt := range attempts {
		record := attempt.record
		if attempt.err != nil {
			record.Status = db_models.BookingFailed
			record.FailureReason = attempt.err.Error()
			log.Printf("Booking failed for trip %s leg %s: %v", trip.ID, record.LegType, attempt.err)
		} else {
			record.Status = db_models.BookingConfirmed
			record.ProviderRef = attempt.confirmation.ProviderRef
			record.ConfirmedPrice = attempt.confirmation.Price
			applyConfirmation(&itinerary, record.LegType, attempt.confirmation)
			confirmed = true
		}

		if err := s.tripRepo.UpdateBookingRecord(ctx, record); err != nil {
			log.Printf("Failed to update booking record %s: %v", record.ID, err)
			return nil, utils.ErrDatabaseError
		}
		trip.Bookings = append(trip.Bookings, *record)
	}

	if confirmed {
		payload, err := json.Marshal(&itinerary)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if err := s.tripRepo.UpdateItinerary(ctx, trip.ID, payload); err != nil {
			log.Printf("Failed to store booking refs on trip %s: %v", trip.ID, err)
			return nil, utils.ErrDatabaseError
		}
		trip.Itinerary = payload
	}

	return db_models.BuildTripResponse(trip), nil
}

func parseLegs(raw []string) ([]db_models.LegType, error) {
	seen := make(map[db_models.LegType]bool)
	var legs []db_models.LegType
	for _, r := range raw {
		leg := db_models.LegType(r)
		switch leg {
		case db_models.LegFlight, db_models.LegLodging:
		default:
			return nil, utils.ErrUnknownLegType
		}
		if !seen[leg] {
			seen[leg] = true
			legs = append(legs, leg)
		}
	}
	return legs, nil
}

// latestRecords keeps the live record per leg; cancelled records were
// superseded and are skipped.
func latestRecords(records []db_models.BookingRecord) map[db_models.LegType]db_models.BookingRecord {
	latest := make(map[db_models.LegType]db_models.BookingRecord)
	for _, r := range records {
		if r.Status == db_models.BookingCancelled {
			continue
		}
		prev, ok := latest[r.LegType]
		if !ok || r.CreatedAt > prev.CreatedAt {
			latest[r.LegType] = r
		}
	}
	return latest
}

// termsFor extracts the provider-facing terms for one leg from the planned
// itinerary. Quoted prices come from the plan; the provider may confirm a
// different price, which then lands in booked_price without touching the plan.
func (s *bookingService) termsFor(leg db_models.LegType, trip *db_models.Trip, itinerary *response_models.Itinerary) request_models.BookingTerms {
	travelers := travelerCount(trip.TravelType)

	switch leg {
	case db_models.LegFlight:
		var quoted float64
		for _, day := range itinerary.Days {
			if day.Transport != nil && day.Transport.Mode == "flight" {
				quoted += day.Transport.Cost
			}
		}
		return request_models.BookingTerms{
			LegType:     string(leg),
			Destination: trip.Destination,
			Date:        trip.StartDate,
			Travelers:   travelers,
			QuotedPrice: quoted,
		}
	default:
		var quoted float64
		for _, day := range itinerary.Days {
			if day.Accommodation != nil {
				quoted += day.Accommodation.PricePerNight
			}
		}
		return request_models.BookingTerms{
			LegType:     string(leg),
			City:        trip.Destination,
			CheckIn:     trip.StartDate,
			CheckOut:    trip.EndDate,
			Travelers:   travelers,
			QuotedPrice: quoted,
		}
	}
}

func travelerCount(travelType string) int {
	switch request_models.TravelType(travelType) {
	case request_models.TravelCouple:
		return 2
	case request_models.TravelFamily:
		return 4
	default:
		return 1
	}
}

// applyConfirmation writes the provider reference and price back onto the
// matching itinerary entries. Planned fields stay untouched on failure.
func applyConfirmation(itinerary *response_models.Itinerary, leg db_models.LegType, confirmation *utils.BookingConfirmation) {
	for i := range itinerary.Days {
		day := &itinerary.Days[i]
		switch leg {
		case db_models.LegFlight:
			if day.Transport != nil && day.Transport.Mode == "flight" {
				day.Transport.BookingRef = confirmation.ProviderRef
				day.Transport.BookedPrice = confirmation.Price
			}
		case db_models.LegLodging:
			if day.Accommodation != nil {
				day.Accommodation.BookingRef = confirmation.ProviderRef
				day.Accommodation.BookedPrice = confirmation.Price
			}
		}
	}
}
