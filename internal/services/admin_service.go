package services

import (
	"context"
	"time"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/metrics"
	"ajo-pools/internal/models"
	"ajo-pools/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PayoutDateResult reports what happened to one pool during a refresh
type PayoutDateResult struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Success        bool       `json:"success"`
	OldDate        *time.Time `json:"oldDate,omitempty"`
	NewDate        *time.Time `json:"newDate,omitempty"`
	NoUpdateNeeded bool       `json:"noUpdateNeeded,omitempty"`
	Error          string     `json:"error,omitempty"`
}

// AdminService backs operator maintenance over all pools
type AdminService struct {
	repo *repository.Repository
}

// NewAdminService creates a new AdminService
func NewAdminService(repo *repository.Repository) *AdminService {
	return &AdminService{repo: repo}
}

// RefreshPayoutDates recomputes next_payout_date of every pending or active
// pool from its start date, frequency and the next payout member's position.
func (s *AdminService) RefreshPayoutDates(ctx context.Context) ([]PayoutDateResult, error) {
	pools, err := s.repo.ListPools(ctx, models.PoolStatusPending, models.PoolStatusActive)
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch pools", err)
	}

	results := make([]PayoutDateResult, 0, len(pools))
	for _, pool := range pools {
		result := s.refreshPool(ctx, pool)
		switch {
		case !result.Success:
			metrics.RecordPayoutDateRefresh("error")
		case result.NoUpdateNeeded:
			metrics.RecordPayoutDateRefresh("unchanged")
		default:
			metrics.RecordPayoutDateRefresh("updated")
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *AdminService) refreshPool(ctx context.Context, pool *models.Pool) PayoutDateResult {
	result := PayoutDateResult{ID: pool.ID, Name: pool.Name}
	entry := logger.Logger.WithField("pool_id", pool.ID)

	position := 1
	if pool.NextPayoutMemberID != nil {
		member, err := s.repo.GetMembership(ctx, pool.ID, *pool.NextPayoutMemberID)
		if err != nil {
			entry.WithError(err).Error("failed to fetch next payout member")
			result.Error = err.Error()
			return result
		}
		if member != nil {
			position = member.Position
		}
	}

	correct := PayoutDateForPosition(pool.StartDate, pool.Frequency, position)
	if correct.Equal(pool.NextPayoutDate) {
		result.Success = true
		result.NoUpdateNeeded = true
		return result
	}

	if err := s.repo.SetNextPayoutDate(ctx, pool.ID, correct); err != nil {
		entry.WithError(err).Error("failed to update next payout date")
		result.Error = err.Error()
		return result
	}

	old := pool.NextPayoutDate
	result.Success = true
	result.OldDate = &old
	result.NewDate = &correct

	entry.WithFields(logrus.Fields{
		"old_date": old,
		"new_date": correct,
	}).Info("next payout date corrected")
	return result
}
