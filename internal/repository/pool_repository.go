package repository

import (
	"context"
	"time"

	"ajo-pools/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatePool inserts the pool and seats its creator at position 1 in one transaction
func (r *Repository) CreatePool(ctx context.Context, pool *models.Pool) (*models.PoolMember, error) {
	var creator *models.PoolMember
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool.CurrentMembers = 1
		if err := tx.Create(pool).Error; err != nil {
			return err
		}

		creator = &models.PoolMember{
			PoolID:   pool.ID,
			UserID:   pool.CreatorID,
			Position: 1,
			Status:   models.MemberStatusActive,
		}
		return tx.Create(creator).Error
	})
	if err != nil {
		return nil, err
	}
	return creator, nil
}

// GetPool retrieves a pool by ID
func (r *Repository) GetPool(ctx context.Context, poolID uuid.UUID) (*models.Pool, error) {
	var pool models.Pool
	err := r.db.WithContext(ctx).Where("id = ?", poolID).First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// GetPoolDetails retrieves a pool with its creator, next payout member and seated members
func (r *Repository) GetPoolDetails(ctx context.Context, poolID uuid.UUID) (*models.Pool, error) {
	var pool models.Pool
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("NextPayoutMember").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Members.User").
		Where("id = ?", poolID).
		First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// GetPoolByAddress retrieves a pool by its on-chain address
func (r *Repository) GetPoolByAddress(ctx context.Context, poolAddress string) (*models.Pool, error) {
	var pool models.Pool
	err := r.db.WithContext(ctx).Where("pool_address = ?", poolAddress).First(&pool).Error
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// ListPoolsForMember retrieves the pools in which the user holds an active seat, newest first
func (r *Repository) ListPoolsForMember(ctx context.Context, userID uuid.UUID) ([]*models.Pool, error) {
	var pools []*models.Pool
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&models.PoolMember{}).
			Select("pool_id").
			Where("user_id = ? AND status = ?", userID, models.MemberStatusActive)).
		Order("created_at DESC").
		Find(&pools).Error
	if err != nil {
		return nil, err
	}
	return pools, nil
}

// ListPoolsByCreator retrieves the pools created by a user
func (r *Repository) ListPoolsByCreator(ctx context.Context, userID uuid.UUID) ([]*models.Pool, error) {
	var pools []*models.Pool
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Order("created_at DESC").
		Find(&pools).Error
	if err != nil {
		return nil, err
	}
	return pools, nil
}

// ListPools retrieves every pool, optionally restricted to the given statuses
func (r *Repository) ListPools(ctx context.Context, statuses ...models.PoolStatus) ([]*models.Pool, error) {
	query := r.db.WithContext(ctx)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var pools []*models.Pool
	if err := query.Order("created_at ASC").Find(&pools).Error; err != nil {
		return nil, err
	}
	return pools, nil
}

// UpdatePool applies a partial update to a pool
func (r *Repository) UpdatePool(ctx context.Context, poolID uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Pool{}).
		Where("id = ?", poolID).
		Updates(updates).Error
}

// ActivatePool records the on-chain creation of a pool
func (r *Repository) ActivatePool(ctx context.Context, poolID uuid.UUID, poolAddress, signature string) error {
	return r.UpdatePool(ctx, poolID, map[string]interface{}{
		"pool_address":        poolAddress,
		"solana_tx_signature": signature,
		"status":              models.PoolStatusActive,
	})
}

// SetNextPayoutDate overwrites the pool's next payout date
func (r *Repository) SetNextPayoutDate(ctx context.Context, poolID uuid.UUID, date time.Time) error {
	return r.UpdatePool(ctx, poolID, map[string]interface{}{"next_payout_date": date})
}

// GetMembership returns the user's seat in the pool, or nil when the user
// holds none.
func (r *Repository) GetMembership(ctx context.Context, poolID, userID uuid.UUID) (*models.PoolMember, error) {
	var member models.PoolMember
	err := r.db.WithContext(ctx).
		Where("pool_id = ? AND user_id = ?", poolID, userID).
		First(&member).Error

	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers retrieves every seat of a pool ordered by position
func (r *Repository) ListMembers(ctx context.Context, poolID uuid.UUID) ([]*models.PoolMember, error) {
	var members []*models.PoolMember
	err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolID).
		Order("position ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ListMembershipsByUser retrieves every seat held by a user
func (r *Repository) ListMembershipsByUser(ctx context.Context, userID uuid.UUID) ([]*models.PoolMember, error) {
	var members []*models.PoolMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// CountMembers counts the seats of a pool
func (r *Repository) CountMembers(ctx context.Context, poolID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PoolMember{}).
		Where("pool_id = ?", poolID).
		Count(&count).Error
	return count, err
}

// JoinPool seats the user at position as one transaction. The occupancy
// counter is advanced with a conditional UPDATE that only matches while the
// pool still has exactly position-1 members and a free slot; that UPDATE
// holds the pool row lock until commit, so concurrent joins on the same pool
// are serialised and at most one of them can claim a given position.
func (r *Repository) JoinPool(ctx context.Context, poolID, userID uuid.UUID, position int) (*models.PoolMember, error) {
	var member *models.PoolMember

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Pool{}).
			Where("id = ? AND current_members = ? AND current_members < total_members", poolID, position-1).
			Update("current_members", gorm.Expr("current_members + 1"))
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			var pool models.Pool
			if err := tx.Select("id", "current_members", "total_members").
				Where("id = ?", poolID).
				First(&pool).Error; err != nil {
				return err
			}
			if pool.IsFull() {
				return ErrPoolFull
			}
			return ErrPositionTaken
		}

		var existing int64
		if err := tx.Model(&models.PoolMember{}).
			Where("pool_id = ? AND user_id = ?", poolID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyMember
		}

		member = &models.PoolMember{
			PoolID:   poolID,
			UserID:   userID,
			Position: position,
			Status:   models.MemberStatusActive,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}
