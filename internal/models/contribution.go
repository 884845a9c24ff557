package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusConfirmed TransferStatus = "confirmed"
	TransferStatusFailed    TransferStatus = "failed"
)

// Contribution is a member's verified on-chain deposit into a pool
type Contribution struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	PoolID               uuid.UUID        `gorm:"type:uuid;not null;index" json:"pool_id"`
	UserID               uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount               decimal.Decimal  `gorm:"type:decimal(20,9);not null" json:"amount"`
	Token                string           `gorm:"size:64;not null" json:"token"`
	TokenSymbol          string           `gorm:"size:16;not null" json:"token_symbol"`
	TransactionSignature string           `gorm:"size:128;not null;uniqueIndex" json:"transaction_signature"`
	Status               TransferStatus   `gorm:"size:16;not null;default:pending" json:"status"`
	IsLate               bool             `gorm:"default:false" json:"is_late"`
	PenaltyAmount        *decimal.Decimal `gorm:"type:decimal(20,9)" json:"penalty_amount"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// TableName specifies the table name for Contribution model
func (Contribution) TableName() string {
	return "contributions"
}

func (c *Contribution) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
