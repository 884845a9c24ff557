package services

import (
	"context"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/models"
	"ajo-pools/internal/repository"
	"ajo-pools/internal/utils"

	"github.com/sirupsen/logrus"
)

// WalletSubjectPrefix prefixes the identity subject of wallet-only accounts
const WalletSubjectPrefix = "wallet:"

// UserService resolves callers to user rows
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// GetBySubject resolves a verified identity subject to its user
func (s *UserService) GetBySubject(ctx context.Context, subject string) (*models.User, error) {
	if subject == "" {
		return nil, apperrors.Unauthorized("Unauthorized")
	}

	user, err := s.repo.GetUserByPrivyID(ctx, subject)
	if repository.IsNotFound(err) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch user", err)
	}
	return user, nil
}

// GetByWallet resolves a wallet address to its user
func (s *UserService) GetByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	if walletAddress == "" {
		return nil, apperrors.Unauthorized("Unauthorized")
	}

	user, err := s.repo.GetUserByWallet(ctx, walletAddress)
	if repository.IsNotFound(err) {
		return nil, apperrors.NotFound("User not found")
	}
	if err != nil {
		return nil, apperrors.Upstream("Failed to fetch user", err)
	}
	return user, nil
}

// FindOrCreate returns the user behind subject, creating it on first contact.
// A wallet is linked only while the user has none.
func (s *UserService) FindOrCreate(ctx context.Context, subject, walletAddress string) (*models.User, error) {
	user, err := s.GetBySubject(ctx, subject)
	if err == nil {
		if walletAddress != "" && user.WalletAddress == nil {
			linked, err := s.repo.LinkWallet(ctx, user.ID, walletAddress)
			if err != nil {
				return nil, apperrors.Upstream("Failed to link wallet", err)
			}
			if linked {
				user.WalletAddress = &walletAddress
			}
		}
		return user, nil
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	user = &models.User{PrivyID: subject}
	if walletAddress != "" {
		user.WalletAddress = &walletAddress
	}
	if name, err := utils.GenerateDisplayName(); err == nil {
		user.DisplayName = &name
	} else {
		logger.Logger.WithError(err).Warn("failed to generate display name")
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		// A concurrent first contact may have created the row already
		if existing, lookupErr := s.repo.GetUserByPrivyID(ctx, subject); lookupErr == nil {
			return existing, nil
		}
		return nil, apperrors.Upstream("Failed to create user", err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"subject": subject,
	}).Info("New user created")
	return user, nil
}

// LoginWithWallet returns the user that owns walletAddress, creating a
// wallet-only account when none exists.
func (s *UserService) LoginWithWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	user, err := s.GetByWallet(ctx, walletAddress)
	if err == nil {
		return user, nil
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	return s.FindOrCreate(ctx, WalletSubjectPrefix+walletAddress, walletAddress)
}
