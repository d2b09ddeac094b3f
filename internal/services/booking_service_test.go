package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
	"tripforge/pkg/utils"
)

type bookingFixture struct {
	tripRepo *fakeTripRepo
	provider *fakeBookingProvider
	service  BookingServiceInterface
	userId   uuid.UUID
	tripId   string
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	tripRepo := newFakeTripRepo()
	provider := newFakeBookingProvider()
	userId := uuid.New()

	prefs := testPrefs()
	itinerary, err := NewMockGenerator().GeneratePlan(context.Background(), prefs)
	require.NoError(t, err)
	payload, err := json.Marshal(itinerary)
	require.NoError(t, err)

	trip := &db_models.Trip{
		UserID:      userId,
		Destination: prefs.Destination,
		StartDate:   prefs.StartDate,
		EndDate:     prefs.EndDate,
		Budget:      prefs.Budget,
		TravelType:  string(prefs.TravelType),
		Version:     1,
		Itinerary:   payload,
	}
	require.NoError(t, tripRepo.CreateTrip(context.Background(), trip))

	return &bookingFixture{
		tripRepo: tripRepo,
		provider: provider,
		service:  NewBookingService(tripRepo, provider),
		userId:   userId,
		tripId:   trip.ID.String(),
	}
}

func (f *bookingFixture) request(legs ...string) request_models.RequestBookingsRequest {
	return request_models.RequestBookingsRequest{TripID: f.tripId, Legs: legs}
}

func TestRequestBookingsConfirmsAllLegs(t *testing.T) {
	f := newBookingFixture(t)

	trip, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight", "lodging"))
	require.NoError(t, err)

	assert.Equal(t, string(db_models.TripFullyBooked), trip.BookingStatus)
	require.Len(t, trip.Bookings, 2)
	for _, leg := range trip.Bookings {
		assert.Equal(t, string(db_models.BookingConfirmed), leg.Status)
		assert.NotEmpty(t, leg.ProviderRef)
	}

	// Confirmed refs land on the itinerary entries.
	require.NotNil(t, trip.Itinerary)
	assert.Equal(t, "REF-flight", trip.Itinerary.Days[0].Transport.BookingRef)
	assert.Equal(t, "REF-lodging", trip.Itinerary.Days[0].Accommodation.BookingRef)
}

func TestRequestBookingsPartialFailure(t *testing.T) {
	f := newBookingFixture(t)
	f.provider.failLegs["flight"] = errors.New("no seats on requested date")

	trip, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight", "lodging"))
	require.NoError(t, err)

	assert.Equal(t, string(db_models.TripPartiallyBooked), trip.BookingStatus)

	byLeg := make(map[string]response_models.BookingLegView)
	for _, leg := range trip.Bookings {
		byLeg[leg.LegType] = leg
	}
	assert.Equal(t, string(db_models.BookingFailed), byLeg["flight"].Status)
	assert.Contains(t, byLeg["flight"].FailureReason, "no seats")
	assert.Equal(t, string(db_models.BookingConfirmed), byLeg["lodging"].Status)

	// The failed leg keeps its planned transport untouched.
	require.NotNil(t, trip.Itinerary)
	assert.Empty(t, trip.Itinerary.Days[0].Transport.BookingRef)
	assert.Equal(t, "REF-lodging", trip.Itinerary.Days[0].Accommodation.BookingRef)
}

func TestRequestBookingsAllLegsFail(t *testing.T) {
	f := newBookingFixture(t)
	f.provider.failLegs["flight"] = errors.New("provider timeout")
	f.provider.failLegs["lodging"] = errors.New("provider timeout")

	trip, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight", "lodging"))
	require.NoError(t, err)
	assert.Equal(t, string(db_models.TripUnbooked), trip.BookingStatus)
}

func TestRequestBookingsConfirmedLegIsNotRebooked(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight"))
	require.NoError(t, err)
	require.Equal(t, 1, f.provider.callCount())

	trip, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight"))
	require.NoError(t, err)

	// No second provider call, no second record.
	assert.Equal(t, 1, f.provider.callCount())
	assert.Len(t, trip.Bookings, 1)
}

func TestRequestBookingsFailedLegGetsFreshAttempt(t *testing.T) {
	f := newBookingFixture(t)
	f.provider.failLegs["flight"] = errors.New("no seats")

	first, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight"))
	require.NoError(t, err)
	assert.Equal(t, string(db_models.TripUnbooked), first.BookingStatus)

	delete(f.provider.failLegs, "flight")
	second, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight"))
	require.NoError(t, err)

	assert.Equal(t, string(db_models.TripFullyBooked), second.BookingStatus)
	assert.Equal(t, 2, f.provider.callCount())
	assert.Len(t, second.Bookings, 2)
}

func TestRequestBookingsUnknownLeg(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.RequestBookings(context.Background(), f.userId, f.request("cruise"))
	assert.ErrorIs(t, err, utils.ErrUnknownLegType)
	assert.Equal(t, 0, f.provider.callCount())
}

func TestRequestBookingsUnknownTrip(t *testing.T) {
	f := newBookingFixture(t)

	req := request_models.RequestBookingsRequest{TripID: uuid.NewString(), Legs: []string{"flight"}}
	_, err := f.service.RequestBookings(context.Background(), f.userId, req)
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}

func TestRequestBookingsOtherUsersTrip(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.RequestBookings(context.Background(), uuid.New(), f.request("flight"))
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}

func TestRequestBookingsBuildsLegTerms(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.RequestBookings(context.Background(), f.userId, f.request("flight", "lodging"))
	require.NoError(t, err)

	byLeg := make(map[string]request_models.BookingTerms)
	for _, terms := range f.provider.calls {
		byLeg[terms.LegType] = terms
	}

	flight := byLeg["flight"]
	assert.Equal(t, "Kyoto", flight.Destination)
	assert.Equal(t, "2026-04-01", flight.Date)
	assert.Equal(t, 2, flight.Travelers)
	assert.Greater(t, flight.QuotedPrice, 0.0)

	lodging := byLeg["lodging"]
	assert.Equal(t, "Kyoto", lodging.City)
	assert.Equal(t, "2026-04-01", lodging.CheckIn)
	assert.Equal(t, "2026-04-05", lodging.CheckOut)
	assert.Greater(t, lodging.QuotedPrice, 0.0)
}
