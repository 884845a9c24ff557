package repository

import (
	"context"
	"time"

	"ajo-pools/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordContribution stores a confirmed contribution, its late penalty when
// one is given, and adds the amount to the pool and member running totals in
// one transaction.
func (r *Repository) RecordContribution(ctx context.Context, contribution *models.Contribution, penalty *models.Penalty) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Contribution{}).
			Where("transaction_signature = ?", contribution.TransactionSignature).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateSignature
		}

		if err := tx.Create(contribution).Error; err != nil {
			return err
		}

		if penalty != nil {
			if err := tx.Create(penalty).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Pool{}).
			Where("id = ?", contribution.PoolID).
			Update("total_contributed", gorm.Expr("total_contributed + ?", contribution.Amount)).Error; err != nil {
			return err
		}

		return tx.Model(&models.PoolMember{}).
			Where("pool_id = ? AND user_id = ?", contribution.PoolID, contribution.UserID).
			Updates(map[string]interface{}{
				"total_contributed":      gorm.Expr("total_contributed + ?", contribution.Amount),
				"last_contribution_date": contribution.CreatedAt,
			}).Error
	})
}

// ListContributions retrieves a user's contributions to a pool, newest first
func (r *Repository) ListContributions(ctx context.Context, poolID, userID uuid.UUID) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	err := r.db.WithContext(ctx).
		Where("pool_id = ? AND user_id = ?", poolID, userID).
		Order("created_at DESC").
		Find(&contributions).Error
	if err != nil {
		return nil, err
	}
	return contributions, nil
}

// ListPenalties retrieves a user's penalties in a pool, newest first
func (r *Repository) ListPenalties(ctx context.Context, poolID, userID uuid.UUID) ([]*models.Penalty, error) {
	var penalties []*models.Penalty
	err := r.db.WithContext(ctx).
		Where("pool_id = ? AND user_id = ?", poolID, userID).
		Order("created_at DESC").
		Find(&penalties).Error
	if err != nil {
		return nil, err
	}
	return penalties, nil
}

// PayoutAdvance is the rotation state a pool moves to after a payout
type PayoutAdvance struct {
	NextMemberID   *uuid.UUID
	NextPayoutDate time.Time
	Status         models.PoolStatus
}

// ProcessPayout stores the payout, marks the recipient as paid and advances
// the pool rotation in one transaction. The pool update only applies while
// the recipient is still the pool's next payout member.
func (r *Repository) ProcessPayout(ctx context.Context, payout *models.Payout, next PayoutAdvance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Payout{}).
			Where("transaction_signature = ?", payout.TransactionSignature).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateSignature
		}

		result := tx.Model(&models.Pool{}).
			Where("id = ? AND next_payout_member_id = ?", payout.PoolID, payout.RecipientID).
			Updates(map[string]interface{}{
				"next_payout_member_id": next.NextMemberID,
				"next_payout_date":      next.NextPayoutDate,
				"status":                next.Status,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPayoutOutdated
		}

		if err := tx.Create(payout).Error; err != nil {
			return err
		}

		return tx.Model(&models.PoolMember{}).
			Where("pool_id = ? AND user_id = ?", payout.PoolID, payout.RecipientID).
			Update("has_received_payout", true).Error
	})
}
