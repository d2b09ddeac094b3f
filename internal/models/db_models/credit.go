package db_models

import (
	"github.com/google/uuid"
)

// CreditAccount holds the per-user generation balance. The balance is only
// ever mutated through the ledger's reserve/commit/release protocol and is
// never allowed to go negative.
type CreditAccount struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Balance int64
}

type ReservationState string

const (
	ReservationHeld      ReservationState = "held"
	ReservationCommitted ReservationState = "committed"
	ReservationReleased  ReservationState = "released"
)

// CreditReservation is a transient hold taken while a generation attempt is
// in flight. A held reservation past ExpiresAt is recoverable: the sweep
// releases it and refunds the balance.
type CreditReservation struct {
	BaseModel
	AccountID uuid.UUID        `gorm:"type:uuid;index"`
	UserID    uuid.UUID        `gorm:"type:uuid;index"`
	Cost      int64
	State     ReservationState `gorm:"type:varchar(12);index"`
	ExpiresAt int64
}
