package services

import (
	"context"
	"errors"
	"time"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/blockchain"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/metrics"
	"ajo-pools/internal/models"
	"ajo-pools/internal/repository"
	"ajo-pools/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const minPoolMembers = 2

var (
	errPoolNotFound  = apperrors.NotFound("Pool not found")
	errPoolFull      = apperrors.Conflict("Pool is already full")
	errAlreadyMember = apperrors.Conflict("You are already a member of this pool")
	errMissingFields = apperrors.BadRequest("Missing required fields")
)

// PoolService handles pool membership and pool lifecycle
type PoolService struct {
	repo  *repository.Repository
	users *UserService
	chain ChainReader
}

// NewPoolService creates a new PoolService
func NewPoolService(repo *repository.Repository, users *UserService, chain ChainReader) *PoolService {
	return &PoolService{repo: repo, users: users, chain: chain}
}

func (s *PoolService) getPool(ctx context.Context, poolID uuid.UUID) (*models.Pool, error) {
	pool, err := s.repo.GetPool(ctx, poolID)
	if repository.IsNotFound(err) {
		return nil, errPoolNotFound
	}
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch pool", err)
	}
	return pool, nil
}

// JoinPool seats the caller at the next free position of the pool
func (s *PoolService) JoinPool(ctx context.Context, poolID uuid.UUID, subject string) (err error) {
	defer func() {
		outcome := "joined"
		if appErr, ok := apperrors.As(err); ok {
			outcome = string(appErr.Kind)
		}
		metrics.RecordJoin(outcome)
	}()

	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return err
	}

	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return err
	}

	if pool.IsFull() {
		return errPoolFull
	}

	membership, err := s.repo.GetMembership(ctx, pool.ID, user.ID)
	if err != nil {
		return apperrors.Upstream("Failed to check membership", err)
	}
	if membership != nil {
		return errAlreadyMember
	}

	position := pool.CurrentMembers + 1
	member, err := s.repo.JoinPool(ctx, pool.ID, user.ID, position)
	switch {
	case errors.Is(err, repository.ErrPoolFull):
		return errPoolFull
	case errors.Is(err, repository.ErrAlreadyMember):
		return errAlreadyMember
	case err != nil:
		logger.Logger.WithError(err).WithFields(logrus.Fields{
			"pool_id":  pool.ID,
			"user_id":  user.ID,
			"position": position,
		}).Error("join pool procedure failed")
		return apperrors.Wrap(apperrors.KindJoinFailed, "Failed to join pool", err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"pool_id":  pool.ID,
		"user_id":  user.ID,
		"position": member.Position,
	}).Info("user joined pool")
	return nil
}

// PositionResult is the caller's seat in a pool
type PositionResult struct {
	Position  *int                 `json:"position"`
	IsCreator bool                 `json:"isCreator"`
	IsMember  bool                 `json:"isMember"`
	Status    *models.MemberStatus `json:"status,omitempty"`
}

// GetUserPosition looks up the seat of the wallet's user in the pool.
// Not being a member is a valid result, not an error.
func (s *PoolService) GetUserPosition(ctx context.Context, poolID uuid.UUID, walletAddress string) (*PositionResult, error) {
	user, err := s.users.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return nil, err
	}

	result := &PositionResult{IsCreator: pool.CreatorID == user.ID}

	membership, err := s.repo.GetMembership(ctx, pool.ID, user.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch membership", err)
	}
	if membership == nil {
		return result, nil
	}

	result.IsMember = true
	result.Position = &membership.Position
	result.Status = &membership.Status
	return result, nil
}

// CreatePoolInput is the body of a pool creation request
type CreatePoolInput struct {
	Name                    string          `json:"name"`
	Description             string          `json:"description"`
	ContributionAmount      decimal.Decimal `json:"contributionAmount"`
	ContributionToken       string          `json:"contributionToken"`
	ContributionTokenSymbol string          `json:"contributionTokenSymbol"`
	Frequency               string          `json:"frequency"`
	TotalMembers            int             `json:"totalMembers"`
	StartDate               *time.Time      `json:"startDate"`
	EndDate                 *time.Time      `json:"endDate"`
	YieldEnabled            bool            `json:"yieldEnabled"`
	PoolAddress             string          `json:"poolAddress"`
}

// CreatePool creates a pending pool with its creator seated at position 1
func (s *PoolService) CreatePool(ctx context.Context, subject string, in CreatePoolInput) (*models.Pool, error) {
	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	name := sanitizeText(in.Name)
	description := sanitizeText(in.Description)
	if name == "" || description == "" || in.ContributionToken == "" || in.ContributionTokenSymbol == "" ||
		in.Frequency == "" || in.TotalMembers == 0 || in.StartDate == nil || in.EndDate == nil {
		return nil, errMissingFields
	}

	frequency := models.PoolFrequency(in.Frequency)
	switch {
	case !frequency.Valid():
		return nil, apperrors.BadRequest("Invalid frequency")
	case in.TotalMembers < minPoolMembers:
		return nil, apperrors.BadRequest("A pool needs at least 2 members")
	case !in.ContributionAmount.IsPositive():
		return nil, apperrors.BadRequest("Contribution amount must be positive")
	case !in.EndDate.After(*in.StartDate):
		return nil, apperrors.BadRequest("End date must be after start date")
	case in.PoolAddress != "" && !blockchain.ValidateAddress(in.PoolAddress):
		return nil, apperrors.BadRequest("Invalid pool address")
	}

	pool := &models.Pool{
		Name:                    name,
		Description:             &description,
		Slug:                    utils.Slugify(name),
		CreatorID:               user.ID,
		ContributionAmount:      in.ContributionAmount,
		ContributionToken:       in.ContributionToken,
		ContributionTokenSymbol: in.ContributionTokenSymbol,
		Frequency:               frequency,
		TotalMembers:            in.TotalMembers,
		TotalContributed:        decimal.Zero,
		StartDate:               *in.StartDate,
		EndDate:                 in.EndDate,
		NextPayoutDate:          PayoutDateForPosition(*in.StartDate, frequency, 1),
		NextPayoutMemberID:      &user.ID,
		YieldEnabled:            in.YieldEnabled,
		Status:                  models.PoolStatusPending,
	}
	if in.PoolAddress != "" {
		pool.PoolAddress = &in.PoolAddress
	}

	if _, err := s.repo.CreatePool(ctx, pool); err != nil {
		return nil, apperrors.Upstream("Failed to create pool", err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"pool_id":    pool.ID,
		"creator_id": user.ID,
	}).Info("pool created")
	return pool, nil
}

// PoolDetails is a pool with the caller's relation to it
type PoolDetails struct {
	Pool              *models.Pool           `json:"pool"`
	IsMember          bool                   `json:"isMember"`
	IsCreator         bool                   `json:"isCreator"`
	UserMembership    *models.PoolMember     `json:"userMembership"`
	UserContributions []*models.Contribution `json:"userContributions"`
	UserPenalties     []*models.Penalty      `json:"userPenalties"`
}

// GetPool returns a pool with its members. walletAddress is optional.
func (s *PoolService) GetPool(ctx context.Context, poolID uuid.UUID, walletAddress string) (*PoolDetails, error) {
	pool, err := s.repo.GetPoolDetails(ctx, poolID)
	if repository.IsNotFound(err) {
		return nil, errPoolNotFound
	}
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch pool", err)
	}

	details := &PoolDetails{
		Pool:              pool,
		UserContributions: []*models.Contribution{},
		UserPenalties:     []*models.Penalty{},
	}
	if walletAddress == "" {
		return details, nil
	}

	user, err := s.users.GetByWallet(ctx, walletAddress)
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return details, nil
	}
	if err != nil {
		return nil, err
	}

	details.IsCreator = pool.CreatorID == user.ID
	for i := range pool.Members {
		if pool.Members[i].UserID == user.ID {
			details.IsMember = true
			details.UserMembership = &pool.Members[i]
			break
		}
	}

	if details.IsMember {
		contributions, err := s.repo.ListContributions(ctx, pool.ID, user.ID)
		if err != nil {
			return nil, apperrors.Upstream("Failed to fetch contributions", err)
		}
		details.UserContributions = contributions

		penalties, err := s.repo.ListPenalties(ctx, pool.ID, user.ID)
		if err != nil {
			return nil, apperrors.Upstream("Failed to fetch penalties", err)
		}
		details.UserPenalties = penalties
	}

	return details, nil
}

// ListUserPools returns the pools in which the wallet's user is an active member
func (s *PoolService) ListUserPools(ctx context.Context, walletAddress string) ([]*models.Pool, error) {
	if walletAddress == "" {
		return nil, apperrors.BadRequest("Wallet address is required")
	}

	user, err := s.users.GetByWallet(ctx, walletAddress)
	if apperrors.IsKind(err, apperrors.KindNotFound) {
		return []*models.Pool{}, nil
	}
	if err != nil {
		return nil, err
	}

	pools, err := s.repo.ListPoolsForMember(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch pools", err)
	}
	return pools, nil
}

// UpdatePoolInput is a partial pool update; nil fields are left unchanged
type UpdatePoolInput struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	TotalMembers *int       `json:"totalMembers"`
	EndDate      *time.Time `json:"endDate"`
	YieldEnabled *bool      `json:"yieldEnabled"`
}

// UpdatePool applies a creator's partial update
func (s *PoolService) UpdatePool(ctx context.Context, poolID uuid.UUID, subject string, in UpdatePoolInput) (*models.Pool, error) {
	pool, _, err := s.creatorPool(ctx, poolID, subject, "Only the pool creator can update this pool")
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := sanitizeText(*in.Name)
		if name == "" {
			return nil, apperrors.BadRequest("Name cannot be empty")
		}
		updates["name"] = name
		updates["slug"] = utils.Slugify(name)
	}
	if in.Description != nil {
		updates["description"] = sanitizeText(*in.Description)
	}
	if in.TotalMembers != nil {
		if *in.TotalMembers < pool.CurrentMembers || *in.TotalMembers < minPoolMembers {
			return nil, apperrors.BadRequest("Total members cannot be less than current members")
		}
		updates["total_members"] = *in.TotalMembers
	}
	if in.EndDate != nil {
		if !in.EndDate.After(pool.StartDate) {
			return nil, apperrors.BadRequest("End date must be after start date")
		}
		updates["end_date"] = *in.EndDate
	}
	if in.YieldEnabled != nil {
		updates["yield_enabled"] = *in.YieldEnabled
	}

	if len(updates) == 0 {
		return pool, nil
	}

	if err := s.repo.UpdatePool(ctx, pool.ID, updates); err != nil {
		return nil, apperrors.Upstream("Failed to update pool", err)
	}

	return s.getPool(ctx, pool.ID)
}

// ActivatePool records the confirmed on-chain creation of a pool
func (s *PoolService) ActivatePool(ctx context.Context, poolID uuid.UUID, subject, poolAddress, signature string) (*models.Pool, error) {
	if poolAddress == "" || signature == "" {
		return nil, errMissingFields
	}
	if !blockchain.ValidateAddress(poolAddress) {
		return nil, apperrors.BadRequest("Invalid pool address")
	}

	pool, _, err := s.creatorPool(ctx, poolID, subject, "Only the pool creator can activate this pool")
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetPoolByAddress(ctx, poolAddress)
	if err != nil && !repository.IsNotFound(err) {
		return nil, apperrors.Upstream("Failed to check pool address", err)
	}
	if existing != nil && existing.ID != pool.ID {
		return nil, apperrors.Conflict("Pool address is already registered")
	}

	if err := verifySignature(ctx, s.chain, signature); err != nil {
		return nil, err
	}

	if err := s.repo.ActivatePool(ctx, pool.ID, poolAddress, signature); err != nil {
		return nil, apperrors.Upstream("Failed to activate pool", err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"pool_id":      pool.ID,
		"pool_address": poolAddress,
	}).Info("pool activated on chain")
	return s.getPool(ctx, pool.ID)
}

// creatorPool loads the pool and checks that subject created it
func (s *PoolService) creatorPool(ctx context.Context, poolID uuid.UUID, subject, forbidden string) (*models.Pool, *models.User, error) {
	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, nil, err
	}

	pool, err := s.getPool(ctx, poolID)
	if err != nil {
		return nil, nil, err
	}

	if pool.CreatorID != user.ID {
		return nil, nil, apperrors.Forbidden(forbidden)
	}
	return pool, user, nil
}

// verifySignature requires a well-formed signature confirmed on chain
func verifySignature(ctx context.Context, chain ChainReader, signature string) error {
	if !blockchain.ValidateSignature(signature) {
		return apperrors.BadRequest("Invalid transaction signature")
	}

	confirmed, err := chain.IsSignatureConfirmed(ctx, signature)
	if err != nil {
		return apperrors.Upstream("Failed to verify transaction", err)
	}
	if !confirmed {
		return apperrors.BadRequest("Transaction verification failed")
	}
	return nil
}
