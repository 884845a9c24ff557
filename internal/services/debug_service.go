package services

import (
	"context"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/models"
	"ajo-pools/internal/repository"
)

// WalletReport is everything stored about one wallet's user
type WalletReport struct {
	User         *models.User         `json:"user"`
	Memberships  []*models.PoolMember `json:"memberships"`
	CreatedPools []*models.Pool       `json:"createdPools"`
	PoolDetails  []*models.Pool       `json:"poolDetails"`
}

// DebugService backs the development-only inspection routes
type DebugService struct {
	users *UserService
	repo  *repository.Repository
}

// NewDebugService creates a new DebugService
func NewDebugService(users *UserService, repo *repository.Repository) *DebugService {
	return &DebugService{users: users, repo: repo}
}

// CheckWallet collects the user, memberships and pools of a wallet
func (s *DebugService) CheckWallet(ctx context.Context, walletAddress string) (*WalletReport, error) {
	user, err := s.users.GetByWallet(ctx, walletAddress)
	if err != nil {
		return nil, err
	}

	memberships, err := s.repo.ListMembershipsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch memberships", err)
	}

	createdPools, err := s.repo.ListPoolsByCreator(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch created pools", err)
	}

	report := &WalletReport{
		User:         user,
		Memberships:  memberships,
		CreatedPools: createdPools,
		PoolDetails:  make([]*models.Pool, 0, len(memberships)),
	}

	for _, m := range memberships {
		pool, err := s.repo.GetPool(ctx, m.PoolID)
		if repository.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, apperrors.Upstream("Failed to fetch pool", err)
		}
		report.PoolDetails = append(report.PoolDetails, pool)
	}

	return report, nil
}
