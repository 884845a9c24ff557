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

// LatePenaltyRate is the share of a late contribution charged as a penalty
var LatePenaltyRate = decimal.RequireFromString("0.02")

// LatePenalty is the penalty owed for contributing amount late
func LatePenalty(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(LatePenaltyRate)
}

// ContributionService records members' verified deposits
type ContributionService struct {
	repo  *repository.Repository
	users *UserService
	chain ChainReader
	now   func() time.Time
}

// NewContributionService creates a new ContributionService
func NewContributionService(repo *repository.Repository, users *UserService, chain ChainReader) *ContributionService {
	return &ContributionService{repo: repo, users: users, chain: chain, now: time.Now}
}

// RecordContributionInput is the body of a contribution record request
type RecordContributionInput struct {
	Amount               decimal.Decimal `json:"amount"`
	TransactionSignature string          `json:"transactionSignature"`
}

// RecordContribution stores a confirmed deposit and updates the running totals.
// A late deposit also records a pending penalty for the member.
func (s *ContributionService) RecordContribution(ctx context.Context, poolID uuid.UUID, subject string, in RecordContributionInput) (*models.Contribution, error) {
	if in.TransactionSignature == "" || in.Amount.IsZero() {
		return nil, errMissingFields
	}
	if in.Amount.IsNegative() {
		return nil, apperrors.BadRequest("Amount must be positive")
	}

	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	pool, err := s.repo.GetPool(ctx, poolID)
	if repository.IsNotFound(err) {
		return nil, errPoolNotFound
	}
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch pool", err)
	}

	membership, err := s.repo.GetMembership(ctx, pool.ID, user.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to check membership", err)
	}
	if membership == nil || membership.Status != models.MemberStatusActive {
		return nil, errNotMember
	}

	if err := verifySignature(ctx, s.chain, in.TransactionSignature); err != nil {
		return nil, err
	}

	now := s.now()
	contribution := &models.Contribution{
		PoolID:               pool.ID,
		UserID:               user.ID,
		Amount:               in.Amount,
		Token:                pool.ContributionToken,
		TokenSymbol:          pool.ContributionTokenSymbol,
		TransactionSignature: in.TransactionSignature,
		Status:               models.TransferStatusConfirmed,
		IsLate:               IsContributionLate(pool.NextPayoutDate, now),
		CreatedAt:            now,
	}

	var penalty *models.Penalty
	if contribution.IsLate {
		amount := LatePenalty(in.Amount)
		contribution.PenaltyAmount = &amount
		penalty = &models.Penalty{
			PoolID:      pool.ID,
			UserID:      user.ID,
			Amount:      amount,
			Token:       pool.ContributionToken,
			TokenSymbol: pool.ContributionTokenSymbol,
			Reason:      models.PenaltyReasonLateContribution,
			Status:      models.PenaltyStatusPending,
			CreatedAt:   now,
		}
	}

	err = s.repo.RecordContribution(ctx, contribution, penalty)
	if errors.Is(err, repository.ErrDuplicateSignature) {
		return nil, apperrors.Conflict("Contribution already recorded")
	}
	if err != nil {
		return nil, apperrors.Upstream("Failed to record contribution", err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"pool_id": pool.ID,
		"user_id": user.ID,
		"amount":  in.Amount.String(),
		"is_late": contribution.IsLate,
		"penalty": penalty != nil,
	}).Info("contribution recorded")
	return contribution, nil
}
