package services

import (
	"context"
	"time"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/models"
	"ajo-pools/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var errNotMember = apperrors.Forbidden("You are not a member of this pool")

// MaxProposalDurationDays bounds how long a proposal stays open
const MaxProposalDurationDays = 365

// ProposalService handles member governance
type ProposalService struct {
	repo  *repository.Repository
	users *UserService
	now   func() time.Time
}

// NewProposalService creates a new ProposalService
func NewProposalService(repo *repository.Repository, users *UserService) *ProposalService {
	return &ProposalService{repo: repo, users: users, now: time.Now}
}

// CreateProposalInput is the body of a proposal creation request
type CreateProposalInput struct {
	PoolID        string      `json:"poolId"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Type          string      `json:"type"`
	DurationDays  int         `json:"durationDays"`
	ExecutionData models.JSON `json:"executionData"`
	TargetUserID  *string     `json:"targetUserId"`
}

// CreateProposal opens a proposal that ends durationDays whole days after creation
func (s *ProposalService) CreateProposal(ctx context.Context, subject string, in CreateProposalInput) (*models.Proposal, error) {
	title := sanitizeText(in.Title)
	description := sanitizeText(in.Description)
	if in.PoolID == "" || title == "" || description == "" || in.Type == "" || in.DurationDays == 0 {
		return nil, errMissingFields
	}

	poolID, err := uuid.Parse(in.PoolID)
	if err != nil {
		return nil, apperrors.BadRequest("Invalid pool id")
	}
	proposalType := models.ProposalType(in.Type)
	if !proposalType.Valid() {
		return nil, apperrors.BadRequest("Invalid proposal type")
	}
	if in.DurationDays < 0 {
		return nil, apperrors.BadRequest("Duration must be positive")
	}
	if in.DurationDays > MaxProposalDurationDays {
		return nil, apperrors.BadRequest("Duration cannot exceed 365 days")
	}

	var targetUserID *uuid.UUID
	if in.TargetUserID != nil && *in.TargetUserID != "" {
		id, err := uuid.Parse(*in.TargetUserID)
		if err != nil {
			return nil, apperrors.BadRequest("Invalid target user id")
		}
		targetUserID = &id
	}

	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	membership, err := s.repo.GetMembership(ctx, poolID, user.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to check membership", err)
	}
	if membership == nil {
		return nil, errNotMember
	}

	now := s.now()
	proposal := &models.Proposal{
		PoolID:        poolID,
		ProposerID:    user.ID,
		Title:         title,
		Description:   description,
		Type:          proposalType,
		Status:        models.ProposalStatusActive,
		EndsAt:        now.Add(time.Duration(in.DurationDays) * 24 * time.Hour),
		ExecutionData: in.ExecutionData,
		TargetUserID:  targetUserID,
		CreatedAt:     now,
	}

	if err := s.repo.CreateProposal(ctx, proposal); err != nil {
		return nil, apperrors.Upstream("Failed to create proposal", err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"proposal_id": proposal.ID,
		"pool_id":     poolID,
		"type":        proposalType,
	}).Info("proposal created")
	return proposal, nil
}

// CastVote records or replaces the caller's vote and returns the new tally
func (s *ProposalService) CastVote(ctx context.Context, subject string, proposalID uuid.UUID, choice string) (*models.VoteCounts, error) {
	vote := models.VoteChoice(choice)
	if !vote.Valid() {
		return nil, apperrors.BadRequest("Invalid vote")
	}

	user, err := s.users.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	proposal, err := s.repo.GetProposal(ctx, proposalID)
	if repository.IsNotFound(err) {
		return nil, apperrors.NotFound("Proposal not found")
	}
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch proposal", err)
	}

	if !proposal.IsOpen(s.now()) {
		return nil, apperrors.BadRequest("Voting has ended for this proposal")
	}

	membership, err := s.repo.GetMembership(ctx, proposal.PoolID, user.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to check membership", err)
	}
	if membership == nil {
		return nil, errNotMember
	}

	if err := s.repo.UpsertVote(ctx, &models.Vote{
		ProposalID: proposal.ID,
		UserID:     user.ID,
		Vote:       vote,
	}); err != nil {
		return nil, apperrors.Upstream("Failed to record vote", err)
	}

	counts, err := s.repo.CountVotes(ctx, proposal.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to count votes", err)
	}
	return counts, nil
}
