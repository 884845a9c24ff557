package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PoolStatus string

const (
	PoolStatusPending   PoolStatus = "pending"
	PoolStatusActive    PoolStatus = "active"
	PoolStatusCompleted PoolStatus = "completed"
	PoolStatusCancelled PoolStatus = "cancelled"
)

type PoolFrequency string

const (
	FrequencyDaily    PoolFrequency = "daily"
	FrequencyWeekly   PoolFrequency = "weekly"
	FrequencyBiweekly PoolFrequency = "biweekly"
	FrequencyMonthly  PoolFrequency = "monthly"
)

// Valid reports whether f is a known contribution frequency
func (f PoolFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// NativeTokenSymbol is the contribution token symbol for plain SOL pools
const NativeTokenSymbol = "SOL"

// Pool is a rotating savings group. CurrentMembers always equals the number
// of PoolMember rows for the pool.
type Pool struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name                    string          `gorm:"size:255;not null" json:"name"`
	Description             *string         `gorm:"type:text" json:"description"`
	Slug                    string          `gorm:"size:255;index" json:"slug"`
	CreatorID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator                 *User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	ContributionAmount      decimal.Decimal `gorm:"type:decimal(20,9);not null" json:"contribution_amount"`
	ContributionToken       string          `gorm:"size:64;not null" json:"contribution_token"`
	ContributionTokenSymbol string          `gorm:"size:16;not null" json:"contribution_token_symbol"`
	Frequency               PoolFrequency   `gorm:"size:16;not null" json:"frequency"`
	TotalMembers            int             `gorm:"not null" json:"total_members"`
	CurrentMembers          int             `gorm:"not null;default:0" json:"current_members"`
	TotalContributed        decimal.Decimal `gorm:"type:decimal(20,9);not null;default:0" json:"total_contributed"`
	StartDate               time.Time       `gorm:"not null" json:"start_date"`
	EndDate                 *time.Time      `json:"end_date"`
	NextPayoutDate          time.Time       `json:"next_payout_date"`
	NextPayoutMemberID      *uuid.UUID      `gorm:"type:uuid" json:"next_payout_member_id"`
	NextPayoutMember        *User           `gorm:"foreignKey:NextPayoutMemberID" json:"next_payout_member,omitempty"`
	YieldEnabled            bool            `gorm:"default:false" json:"yield_enabled"`
	PoolAddress             *string         `gorm:"size:64;uniqueIndex" json:"pool_address"`
	SolanaTxSignature       *string         `gorm:"size:128" json:"solana_tx_signature"`
	Status                  PoolStatus      `gorm:"size:16;not null;default:pending;index" json:"status"`
	Members                 []PoolMember    `gorm:"foreignKey:PoolID" json:"pool_members,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Pool model
func (Pool) TableName() string {
	return "pools"
}

func (p *Pool) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsFull reports whether every slot of the pool is taken
func (p *Pool) IsFull() bool {
	return p.CurrentMembers >= p.TotalMembers
}

// UsesNativeToken reports whether contributions are made in SOL
func (p *Pool) UsesNativeToken() bool {
	return p.ContributionTokenSymbol == "" || p.ContributionTokenSymbol == NativeTokenSymbol
}
