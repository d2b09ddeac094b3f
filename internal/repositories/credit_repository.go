package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripforge/internal/models/db_models"
)

type CreditRepository interface {
	GetAccountByUserId(ctx context.Context, userId uuid.UUID) (*db_models.CreditAccount, error)
	CreateAccount(ctx context.Context, account *db_models.CreditAccount) error
	GetReservationById(ctx context.Context, reservationId uuid.UUID) (*db_models.CreditReservation, error)

	// Reserve atomically checks balance >= cost and decrements it, recording a
	// held reservation. Returns (nil, nil) when the balance cannot cover the
	// cost; no state changes in that case.
	Reserve(ctx context.Context, userId uuid.UUID, cost int64, expiresAt int64) (*db_models.CreditReservation, error)

	// Commit marks a held reservation committed. Returns false when the
	// reservation was not held (already committed or released).
	Commit(ctx context.Context, reservationId uuid.UUID) (bool, error)

	// Release refunds a held reservation's cost and marks it released.
	// Returns false when the reservation was not held; committed wins.
	Release(ctx context.Context, reservationId uuid.UUID) (bool, error)

	// SweepExpired releases every held reservation past its expiry window.
	SweepExpired(ctx context.Context, now int64) (int64, error)
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{
		db: db,
	}
}

func (r *creditRepository) GetAccountByUserId(ctx context.Context, userId uuid.UUID) (*db_models.CreditAccount, error) {
	var account db_models.CreditAccount
	err := r.db.WithContext(ctx).First(&account, "user_id = ?", userId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *creditRepository) CreateAccount(ctx context.Context, account *db_models.CreditAccount) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *creditRepository) GetReservationById(ctx context.Context, reservationId uuid.UUID) (*db_models.CreditReservation, error) {
	var reservation db_models.CreditReservation
	err := r.db.WithContext(ctx).First(&reservation, "id = ?", reservationId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *creditRepository) Reserve(ctx context.Context, userId uuid.UUID, cost int64, expiresAt int64) (*db_models.CreditReservation, error) {
	var reservation *db_models.CreditReservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The check and the decrement are one statement, so two concurrent
		// reservations can never both observe a balance that covers only one.
		res := tx.Model(&db_models.CreditAccount{}).
			Where("user_id = ? AND balance >= ?", userId, cost).
			Update("balance", gorm.Expr("balance - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var account db_models.CreditAccount
		if err := tx.First(&account, "user_id = ?", userId).Error; err != nil {
			return err
		}

		reservation = &db_models.CreditReservation{
			AccountID: account.ID,
			UserID:    userId,
			Cost:      cost,
			State:     db_models.ReservationHeld,
			ExpiresAt: expiresAt,
		}
		return tx.Create(reservation).Error
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

func (r *creditRepository) Commit(ctx context.Context, reservationId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.CreditReservation{}).
		Where("id = ? AND state = ?", reservationId, db_models.ReservationHeld).
		Update("state", db_models.ReservationCommitted)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *creditRepository) Release(ctx context.Context, reservationId uuid.UUID) (bool, error) {
	released := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation db_models.CreditReservation
		if err := tx.First(&reservation, "id = ?", reservationId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		res := tx.Model(&db_models.CreditReservation{}).
			Where("id = ? AND state = ?", reservationId, db_models.ReservationHeld).
			Update("state", db_models.ReservationReleased)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		released = true
		return tx.Model(&db_models.CreditAccount{}).
			Where("id = ?", reservation.AccountID).
			Update("balance", gorm.Expr("balance + ?", reservation.Cost)).Error
	})
	if err != nil {
		return false, err
	}

	return released, nil
}

func (r *creditRepository) SweepExpired(ctx context.Context, now int64) (int64, error) {
	var expired []db_models.CreditReservation
	err := r.db.WithContext(ctx).
		Where("state = ? AND expires_at < ?", db_models.ReservationHeld, now).
		Find(&expired).Error
	if err != nil {
		return 0, err
	}

	var count int64
	for _, reservation := range expired {
		released, err := r.Release(ctx, reservation.ID)
		if err != nil {
			return count, err
		}
		if released {
			count++
		}
	}
	return count, nil
}
