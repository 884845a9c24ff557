package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account known to the identity provider
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PrivyID       string    `gorm:"size:255;uniqueIndex;not null" json:"privy_id"`
	WalletAddress *string   `gorm:"size:64;uniqueIndex" json:"wallet_address"`
	DisplayName   *string   `gorm:"size:255" json:"display_name"`
	AvatarURL     *string   `gorm:"size:500" json:"avatar_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Wallet returns the linked wallet address or an empty string
func (u *User) Wallet() string {
	if u.WalletAddress == nil {
		return ""
	}
	return *u.WalletAddress
}
