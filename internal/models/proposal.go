package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalType string

const (
	ProposalTypePayoutOrder         ProposalType = "payout_order"
	ProposalTypeEmergencyWithdrawal ProposalType = "emergency_withdrawal"
	ProposalTypeExtendPool          ProposalType = "extend_pool"
	ProposalTypeRemoveMember        ProposalType = "remove_member"
	ProposalTypeChangeRules         ProposalType = "change_rules"
)

// Valid reports whether t is a known proposal type
func (t ProposalType) Valid() bool {
	switch t {
	case ProposalTypePayoutOrder, ProposalTypeEmergencyWithdrawal, ProposalTypeExtendPool,
		ProposalTypeRemoveMember, ProposalTypeChangeRules:
		return true
	}
	return false
}

type ProposalStatus string

const (
	ProposalStatusActive    ProposalStatus = "active"
	ProposalStatusExecuted  ProposalStatus = "executed"
	ProposalStatusRejected  ProposalStatus = "rejected"
	ProposalStatusCancelled ProposalStatus = "cancelled"
)

// Proposal is a time-bounded governance action inside a pool
type Proposal struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PoolID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"pool_id"`
	ProposerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"proposer_id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	Type          ProposalType   `gorm:"size:32;not null" json:"type"`
	Status        ProposalStatus `gorm:"size:16;not null;default:active;index" json:"status"`
	EndsAt        time.Time      `gorm:"not null" json:"ends_at"`
	ExecutionData JSON           `gorm:"type:jsonb" json:"execution_data"`
	TargetUserID  *uuid.UUID     `gorm:"type:uuid" json:"target_user_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Proposal model
func (Proposal) TableName() string {
	return "proposals"
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsOpen reports whether votes can still be cast at now
func (p *Proposal) IsOpen(now time.Time) bool {
	return p.Status == ProposalStatusActive && now.Before(p.EndsAt)
}
