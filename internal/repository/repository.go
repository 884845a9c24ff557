package repository

import (
	"context"
	"errors"

	"ajo-pools/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrPoolFull is returned by JoinPool when no slot is left
	ErrPoolFull = errors.New("pool is full")
	// ErrAlreadyMember is returned by JoinPool when the user already holds a seat
	ErrAlreadyMember = errors.New("user is already a member of the pool")
	// ErrPositionTaken is returned by JoinPool when another join claimed the
	// requested position first
	ErrPositionTaken = errors.New("requested position is no longer free")
	// ErrDuplicateSignature is returned when a transaction signature was already recorded
	ErrDuplicateSignature = errors.New("transaction signature already recorded")
	// ErrPayoutOutdated is returned when the pool's rotation moved on concurrently
	ErrPayoutOutdated = errors.New("pool payout rotation changed")
)

// Repository is the persistence gateway over the relational store
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new Repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IsNotFound reports whether err means the requested row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByPrivyID retrieves a user by identity-provider subject
func (r *Repository) GetUserByPrivyID(ctx context.Context, privyID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("privy_id = ?", privyID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByWallet retrieves a user by linked wallet address
func (r *Repository) GetUserByWallet(ctx context.Context, walletAddress string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("wallet_address = ?", walletAddress).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a new user
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// LinkWallet sets the wallet address of a user that has none yet.
// It reports whether the address was written.
func (r *Repository) LinkWallet(ctx context.Context, userID uuid.UUID, walletAddress string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND wallet_address IS NULL", userID).
		Update("wallet_address", walletAddress)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
