package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"tripforge/internal/models/db_models"
	"tripforge/internal/models/response_models"
	"tripforge/internal/repositories"
	"tripforge/pkg/utils"
)

type CreditServiceInterface interface {
	// ReservePlanCredit places a hold of the configured generation cost
	// against the user's balance. The hold expires after the configured TTL
	// unless committed or released first.
	ReservePlanCredit(ctx context.Context, userId uuid.UUID) (*db_models.CreditReservation, error)

	// CommitReservation makes a hold permanent. Committing an already
	// committed reservation is a no-op.
	CommitReservation(ctx context.Context, reservationId uuid.UUID) error

	// ReleaseReservation refunds a hold. Releasing after a commit, or
	// releasing twice, is a no-op: the commit always wins.
	ReleaseReservation(ctx context.Context, reservationId uuid.UUID) error

	GetBalance(ctx context.Context, userId uuid.UUID) (*response_models.CreditBalanceResponse, error)
}

type CreditLedgerConfig struct {
	CostPerPlan     int64
	ReservationTTL  time.Duration
	StartingBalance int64
}

type creditService struct {
	creditRepo repositories.CreditRepository
	cfg        CreditLedgerConfig
}

func NewCreditService(creditRepo repositories.CreditRepository, cfg CreditLedgerConfig) CreditServiceInterface {
	if cfg.CostPerPlan <= 0 {
		cfg.CostPerPlan = 10
	}
	if cfg.ReservationTTL <= 0 {
		cfg.ReservationTTL = 5 * time.Minute
	}
	return &creditService{
		creditRepo: creditRepo,
		cfg:        cfg,
	}
}

func (s *creditService) ReservePlanCredit(ctx context.Context, userId uuid.UUID) (*db_models.CreditReservation, error) {
	// Expired holds are recovered lazily, right before anything that needs an
	// accurate balance.
	if swept, err := s.creditRepo.SweepExpired(ctx, time.Now().Unix()); err != nil {
		log.Printf("Reservation sweep failed: %v", err)
	} else if swept > 0 {
		log.Printf("Released %d expired credit reservations", swept)
	}

	account, err := s.creditRepo.GetAccountByUserId(ctx, userId)
	if err != nil {
		log.Printf("Failed to load credit account for user %s: %v", userId, err)
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	expiresAt := time.Now().Add(s.cfg.ReservationTTL).Unix()
	reservation, err := s.creditRepo.Reserve(ctx, userId, s.cfg.CostPerPlan, expiresAt)
	if err != nil {
		log.Printf("Failed to reserve %d credits for user %s: %v", s.cfg.CostPerPlan, userId, err)
		return nil, utils.ErrDatabaseError
	}
	if reservation == nil {
		return nil, utils.ErrInsufficientCredits
	}

	return reservation, nil
}

func (s *creditService) CommitReservation(ctx context.Context, reservationId uuid.UUID) error {
	committed, err := s.creditRepo.Commit(ctx, reservationId)
	if err != nil {
		log.Printf("Failed to commit reservation %s: %v", reservationId, err)
		return utils.ErrDatabaseError
	}
	if committed {
		return nil
	}

	reservation, err := s.creditRepo.GetReservationById(ctx, reservationId)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if reservation != nil && reservation.State == db_models.ReservationCommitted {
		return nil
	}
	return utils.ErrReservationNotHeld
}

func (s *creditService) ReleaseReservation(ctx context.Context, reservationId uuid.UUID) error {
	released, err := s.creditRepo.Release(ctx, reservationId)
	if err != nil {
		log.Printf("Failed to release reservation %s: %v", reservationId, err)
		return utils.ErrDatabaseError
	}
	if !released {
		// Already committed or already released; either way there is nothing
		// left to refund.
		log.Printf("Reservation %s was not held, nothing released", reservationId)
	}
	return nil
}

func (s *creditService) GetBalance(ctx context.Context, userId uuid.UUID) (*response_models.CreditBalanceResponse, error) {
	if swept, err := s.creditRepo.SweepExpired(ctx, time.Now().Unix()); err != nil {
		log.Printf("Reservation sweep failed: %v", err)
	} else if swept > 0 {
		log.Printf("Released %d expired credit reservations", swept)
	}

	account, err := s.creditRepo.GetAccountByUserId(ctx, userId)
	if err != nil {
		log.Printf("Failed to load credit account for user %s: %v", userId, err)
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		// First contact with the ledger opens an account with the signup
		// grant, matching what onboarding would have done.
		account = &db_models.CreditAccount{
			UserID:  userId,
			Balance: s.cfg.StartingBalance,
		}
		if err := s.creditRepo.CreateAccount(ctx, account); err != nil {
			log.Printf("Failed to create credit account for user %s: %v", userId, err)
			return nil, utils.ErrDatabaseError
		}
	}

	return &response_models.CreditBalanceResponse{
		UserID:  userId.String(),
		Balance: account.Balance,
	}, nil
}
