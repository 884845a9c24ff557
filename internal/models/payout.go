package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payout is one rotation's disbursement to a member
type Payout struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PoolID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"pool_id"`
	RecipientID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Amount               decimal.Decimal `gorm:"type:decimal(20,9);not null" json:"amount"`
	Token                string          `gorm:"size:64;not null" json:"token"`
	TokenSymbol          string          `gorm:"size:16;not null" json:"token_symbol"`
	TransactionSignature string          `gorm:"size:128;not null;uniqueIndex" json:"transaction_signature"`
	Status               TransferStatus  `gorm:"size:16;not null;default:confirmed" json:"status"`
	PayoutDate           time.Time       `gorm:"not null" json:"payout_date"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Payout model
func (Payout) TableName() string {
	return "payouts"
}

func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
