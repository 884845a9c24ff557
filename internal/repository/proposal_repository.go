package repository

import (
	"context"
	"time"

	"ajo-pools/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// CreateProposal creates a new proposal
func (r *Repository) CreateProposal(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

// GetProposal retrieves a proposal by ID
func (r *Repository) GetProposal(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).Where("id = ?", proposalID).First(&proposal).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// CountProposals counts the proposals of a pool
func (r *Repository) CountProposals(ctx context.Context, poolID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("pool_id = ?", poolID).
		Count(&count).Error
	return count, err
}

// UpsertVote records the user's ballot, replacing an earlier one
func (r *Repository) UpsertVote(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "proposal_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"vote":       vote.Vote,
			"updated_at": time.Now(),
		}),
	}).Create(vote).Error
}

// CountVotes tallies the ballots of a proposal
func (r *Repository) CountVotes(ctx context.Context, proposalID uuid.UUID) (*models.VoteCounts, error) {
	var rows []struct {
		Vote  models.VoteChoice
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("vote, COUNT(*) AS count").
		Where("proposal_id = ?", proposalID).
		Group("vote").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &models.VoteCounts{}
	for _, row := range rows {
		switch row.Vote {
		case models.VoteYes:
			counts.Yes = row.Count
		case models.VoteNo:
			counts.No = row.Count
		case models.VoteAbstain:
			counts.Abstain = row.Count
		}
		counts.Total += row.Count
	}
	return counts, nil
}
