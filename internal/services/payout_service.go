package services

import (
	"context"
	"errors"
	"time"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/models"
	"ajo-pools/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PayoutService confirms rotation payouts and advances the pool schedule
type PayoutService struct {
	pools *PoolService
	repo  *repository.Repository
	chain ChainReader
	now   func() time.Time
}

// NewPayoutService creates a new PayoutService
func NewPayoutService(pools *PoolService, repo *repository.Repository, chain ChainReader) *PayoutService {
	return &PayoutService{pools: pools, repo: repo, chain: chain, now: time.Now}
}

// PayoutAmount is one rotation's pot: every seated member's contribution
func PayoutAmount(pool *models.Pool) decimal.Decimal {
	return pool.ContributionAmount.Mul(decimal.NewFromInt(int64(pool.CurrentMembers)))
}

// nextRecipient returns the active member seated after position, if any
func nextRecipient(members []*models.PoolMember, position int) *models.PoolMember {
	var next *models.PoolMember
	for _, m := range members {
		if m.Position <= position || m.Status != models.MemberStatusActive {
			continue
		}
		if next == nil || m.Position < next.Position {
			next = m
		}
	}
	return next
}

// ConfirmPayout records the creator's confirmed payout transfer to the
// pool's next payout member and advances the rotation.
func (ps *PayoutService) ConfirmPayout(ctx context.Context, poolID uuid.UUID, subject, signature string) (*models.Payout, error) {
	if signature == "" {
		return nil, errMissingFields
	}

	pool, _, err := ps.pools.creatorPool(ctx, poolID, subject, "Only the pool creator can process payouts")
	if err != nil {
		return nil, err
	}

	if pool.NextPayoutMemberID == nil {
		return nil, apperrors.BadRequest("No payout is due for this pool")
	}
	if pool.Status != models.PoolStatusActive {
		return nil, apperrors.BadRequest("Pool is not active")
	}

	members, err := ps.repo.ListMembers(ctx, pool.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch members", err)
	}

	var recipient *models.PoolMember
	for _, m := range members {
		if m.UserID == *pool.NextPayoutMemberID {
			recipient = m
			break
		}
	}
	if recipient == nil {
		return nil, apperrors.BadRequest("Next payout member is not in this pool")
	}

	if err := verifySignature(ctx, ps.chain, signature); err != nil {
		return nil, err
	}

	advance := repository.PayoutAdvance{
		NextPayoutDate: AdvancePayoutDate(pool.NextPayoutDate, pool.Frequency, 1),
		Status:         models.PoolStatusActive,
	}
	if next := nextRecipient(members, recipient.Position); next != nil {
		advance.NextMemberID = &next.UserID
	} else {
		advance.NextPayoutDate = pool.NextPayoutDate
		advance.Status = models.PoolStatusCompleted
	}

	payout := &models.Payout{
		PoolID:               pool.ID,
		RecipientID:          recipient.UserID,
		Amount:               PayoutAmount(pool),
		Token:                pool.ContributionToken,
		TokenSymbol:          pool.ContributionTokenSymbol,
		TransactionSignature: signature,
		Status:               models.TransferStatusConfirmed,
		PayoutDate:           ps.now(),
	}

	err = ps.repo.ProcessPayout(ctx, payout, advance)
	switch {
	case errors.Is(err, repository.ErrDuplicateSignature):
		return nil, apperrors.Conflict("Payout already recorded")
	case errors.Is(err, repository.ErrPayoutOutdated):
		return nil, apperrors.Conflict("Payout was already processed")
	case err != nil:
		return nil, apperrors.Upstream("Failed to record payout", err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"pool_id":      pool.ID,
		"recipient_id": recipient.UserID,
		"amount":       payout.Amount.String(),
		"pool_status":  advance.Status,
	}).Info("payout processed")
	return payout, nil
}
