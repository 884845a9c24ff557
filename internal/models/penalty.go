package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PenaltyReason string

const (
	PenaltyReasonLateContribution PenaltyReason = "late_contribution"
)

type PenaltyStatus string

const (
	PenaltyStatusPending PenaltyStatus = "pending"
	PenaltyStatusPaid    PenaltyStatus = "paid"
	PenaltyStatusWaived  PenaltyStatus = "waived"
)

// Penalty is an amount a member owes the pool, e.g. for contributing late
type Penalty struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PoolID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_penalties_pool_user" json:"pool_id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_penalties_pool_user" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,9);not null" json:"amount"`
	Token       string          `gorm:"size:64;not null" json:"token"`
	TokenSymbol string          `gorm:"size:16;not null" json:"token_symbol"`
	Reason      PenaltyReason   `gorm:"size:32;not null" json:"reason"`
	Status      PenaltyStatus   `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Penalty model
func (Penalty) TableName() string {
	return "penalties"
}

func (p *Penalty) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
