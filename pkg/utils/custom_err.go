package utils

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidPage           = errors.New("invalid page parameter")
	ErrInvalidPageSize       = errors.New("invalid page size parameter")
	ErrDatabaseError         = errors.New("database error")
	ErrTripNotFound          = errors.New("trip not found")
	ErrAccountNotFound       = errors.New("credit account not found")
	ErrInsufficientCredits   = errors.New("insufficient credits")
	ErrGenerationUnavailable = errors.New("itinerary generation unavailable")
	ErrMalformedResponse     = errors.New("malformed generation response")
	ErrReservationNotHeld    = errors.New("reservation is not held")
	ErrBookingFailed         = errors.New("booking provider call failed")
	ErrUnknownLegType        = errors.New("unknown booking leg type")
)
