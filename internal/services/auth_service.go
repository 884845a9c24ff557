package services

import (
	"context"
	"errors"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/auth"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/models"

	"github.com/google/uuid"
)

// SessionIssuer signs session tokens after wallet sign-in
type SessionIssuer interface {
	GenerateSessionToken(subject, walletAddress string) (string, error)
}

// AuthService handles wallet sign-in
type AuthService struct {
	users  *UserService
	nonces auth.NonceStore
	tokens SessionIssuer
}

// NewAuthService creates a new AuthService
func NewAuthService(users *UserService, nonces auth.NonceStore, tokens SessionIssuer) *AuthService {
	return &AuthService{users: users, nonces: nonces, tokens: tokens}
}

// Challenge issues a single-use nonce and the message the wallet must sign
func (s *AuthService) Challenge(ctx context.Context, walletAddress string) (string, string, error) {
	if !auth.ValidWalletAddress(walletAddress) {
		return "", "", apperrors.BadRequest("Invalid wallet address")
	}

	nonce := uuid.NewString()
	if err := s.nonces.Set(ctx, walletAddress, nonce); err != nil {
		return "", "", apperrors.Upstream("Failed to store challenge", err)
	}

	return nonce, auth.ChallengeMessage(nonce), nil
}

// WalletLogin verifies the signed challenge and returns a session token
func (s *AuthService) WalletLogin(ctx context.Context, walletAddress, signature string) (string, *models.User, error) {
	if !auth.ValidWalletAddress(walletAddress) {
		return "", nil, apperrors.BadRequest("Invalid wallet address")
	}

	nonce, err := s.nonces.Take(ctx, walletAddress)
	if errors.Is(err, auth.ErrNonceNotFound) {
		return "", nil, apperrors.Unauthorized("Challenge expired")
	}
	if err != nil {
		return "", nil, apperrors.Upstream("Failed to load challenge", err)
	}

	if err := auth.VerifyWalletSignature(walletAddress, signature, []byte(auth.ChallengeMessage(nonce))); err != nil {
		logger.Logger.WithError(err).WithField("wallet", walletAddress).Debug("wallet signature rejected")
		return "", nil, apperrors.Unauthorized("Invalid signature")
	}

	user, err := s.users.LoginWithWallet(ctx, walletAddress)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.GenerateSessionToken(user.PrivyID, walletAddress)
	if err != nil {
		return "", nil, apperrors.Upstream("Failed to generate token", err)
	}

	return token, user, nil
}
