package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/request_models"
	"tripforge/internal/models/response_models"
	"tripforge/pkg/utils"
)

// fakeCreditRepo is an in-memory CreditRepository with the same atomicity
// guarantees as the real one: reserve is check-and-decrement under one lock.
type fakeCreditRepo struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*db_models.CreditAccount
	reservations map[uuid.UUID]*db_models.CreditReservation
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{
		accounts:     make(map[uuid.UUID]*db_models.CreditAccount),
		reservations: make(map[uuid.UUID]*db_models.CreditReservation),
	}
}

func (f *fakeCreditRepo) addAccount(userId uuid.UUID, balance int64) *db_models.CreditAccount {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := &db_models.CreditAccount{
		BaseModel: db_models.BaseModel{ID: uuid.New(), CreatedAt: time.Now().Unix()},
		UserID:    userId,
		Balance:   balance,
	}
	f.accounts[userId] = account
	return account
}

func (f *fakeCreditRepo) balance(userId uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[userId]; ok {
		return account.Balance
	}
	return 0
}

func (f *fakeCreditRepo) GetAccountByUserId(_ context.Context, userId uuid.UUID) (*db_models.CreditAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[userId]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (f *fakeCreditRepo) CreateAccount(_ context.Context, account *db_models.CreditAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	copied := *account
	f.accounts[account.UserID] = &copied
	return nil
}

func (f *fakeCreditRepo) GetReservationById(_ context.Context, reservationId uuid.UUID) (*db_models.CreditReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[reservationId]
	if !ok {
		return nil, nil
	}
	copied := *reservation
	return &copied, nil
}

func (f *fakeCreditRepo) Reserve(_ context.Context, userId uuid.UUID, cost int64, expiresAt int64) (*db_models.CreditReservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[userId]
	if !ok || account.Balance < cost {
		return nil, nil
	}
	account.Balance -= cost
	reservation := &db_models.CreditReservation{
		BaseModel: db_models.BaseModel{ID: uuid.New(), CreatedAt: time.Now().Unix()},
		AccountID: account.ID,
		UserID:    userId,
		Cost:      cost,
		State:     db_models.ReservationHeld,
		ExpiresAt: expiresAt,
	}
	f.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (f *fakeCreditRepo) Commit(_ context.Context, reservationId uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[reservationId]
	if !ok || reservation.State != db_models.ReservationHeld {
		return false, nil
	}
	reservation.State = db_models.ReservationCommitted
	return true, nil
}

func (f *fakeCreditRepo) Release(_ context.Context, reservationId uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releaseLocked(reservationId), nil
}

func (f *fakeCreditRepo) releaseLocked(reservationId uuid.UUID) bool {
	reservation, ok := f.reservations[reservationId]
	if !ok || reservation.State != db_models.ReservationHeld {
		return false
	}
	reservation.State = db_models.ReservationReleased
	for _, account := range f.accounts {
		if account.ID == reservation.AccountID {
			account.Balance += reservation.Cost
		}
	}
	return true
}

func (f *fakeCreditRepo) SweepExpired(_ context.Context, now int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, reservation := range f.reservations {
		if reservation.State == db_models.ReservationHeld && reservation.ExpiresAt < now {
			if f.releaseLocked(id) {
				count++
			}
		}
	}
	return count, nil
}

// fakeTripRepo is an in-memory TripRepository.
type fakeTripRepo struct {
	mu      sync.Mutex
	trips   map[uuid.UUID]*db_models.Trip
	records map[uuid.UUID]*db_models.BookingRecord

	failCreate  bool
	failReplace bool
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{
		trips:   make(map[uuid.UUID]*db_models.Trip),
		records: make(map[uuid.UUID]*db_models.BookingRecord),
	}
}

func (f *fakeTripRepo) CreateTrip(_ context.Context, trip *db_models.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("connection reset")
	}
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	trip.CreatedAt = time.Now().Unix()
	copied := *trip
	f.trips[trip.ID] = &copied
	return nil
}

func (f *fakeTripRepo) GetTripById(_ context.Context, tripId string) (*db_models.Trip, error) {
	id, err := uuid.Parse(tripId)
	if err != nil {
		return nil, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	trip, ok := f.trips[id]
	if !ok {
		return nil, nil
	}
	copied := *trip
	copied.Bookings = nil
	for _, record := range f.records {
		if record.TripID == id {
			copied.Bookings = append(copied.Bookings, *record)
		}
	}
	return &copied, nil
}

func (f *fakeTripRepo) ListTripsByUserId(_ context.Context, page, pageSize int, userId string) ([]db_models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var trips []db_models.Trip
	for _, trip := range f.trips {
		if trip.UserID.String() == userId {
			trips = append(trips, *trip)
		}
	}
	return trips, nil
}

func (f *fakeTripRepo) ReplaceItinerary(_ context.Context, trip *db_models.Trip, itinerary datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReplace {
		return errors.New("connection reset")
	}
	stored, ok := f.trips[trip.ID]
	if !ok {
		return errors.New("record not found")
	}
	stored.Destination = trip.Destination
	stored.StartDate = trip.StartDate
	stored.EndDate = trip.EndDate
	stored.Budget = trip.Budget
	stored.TravelType = trip.TravelType
	stored.Interests = trip.Interests
	stored.Accommodation = trip.Accommodation
	stored.Itinerary = itinerary
	stored.Version++
	trip.Version = stored.Version
	trip.Itinerary = itinerary
	return nil
}

func (f *fakeTripRepo) UpdateItinerary(_ context.Context, tripId uuid.UUID, itinerary datatypes.JSON) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if trip, ok := f.trips[tripId]; ok {
		trip.Itinerary = itinerary
	}
	return nil
}

func (f *fakeTripRepo) CreateBookingRecord(_ context.Context, record *db_models.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now().Unix()
	copied := *record
	f.records[record.ID] = &copied
	return nil
}

func (f *fakeTripRepo) UpdateBookingRecord(_ context.Context, record *db_models.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *record
	f.records[record.ID] = &copied
	return nil
}

// fakePlanner scripts planner outcomes and counts calls.
type fakePlanner struct {
	mu        sync.Mutex
	calls     int
	itinerary *response_models.Itinerary
	err       error
}

func (f *fakePlanner) GeneratePlan(_ context.Context, prefs request_models.TripPreferences) (*response_models.Itinerary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.itinerary, nil
}

func (f *fakePlanner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeBookingProvider scripts per-leg outcomes.
type fakeBookingProvider struct {
	mu       sync.Mutex
	calls    []request_models.BookingTerms
	failLegs map[string]error
}

func newFakeBookingProvider() *fakeBookingProvider {
	return &fakeBookingProvider{failLegs: make(map[string]error)}
}

func (f *fakeBookingProvider) BookLeg(_ context.Context, terms request_models.BookingTerms) (*utils.BookingConfirmation, error) {
	f.mu.Lock()
	f.calls = append(f.calls, terms)
	err := f.failLegs[terms.LegType]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &utils.BookingConfirmation{
		ProviderRef: "REF-" + terms.LegType,
		Price:       terms.QuotedPrice,
		Status:      "confirmed",
	}, nil
}

func (f *fakeBookingProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testPrefs() request_models.TripPreferences {
	return request_models.TripPreferences{
		Destination: "Kyoto",
		StartDate:   "2026-04-01",
		EndDate:     "2026-04-05",
		Budget:      2000,
		TravelType:  request_models.TravelCouple,
		Interests:   []string{"temples", "food"},
	}
}
